package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed info.md
var infoPage string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show event details, pricing and keyboard reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		style := cfg.UI.MarkdownStyle
		if style == "" {
			style = "dark"
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}

		out, err := renderer.Render(infoPage)
		if err != nil {
			return fmt.Errorf("rendering info page: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
