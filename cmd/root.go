package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"regwiz/internal/api"
	"regwiz/internal/app"
	"regwiz/internal/config"
	"regwiz/internal/draft"
	"regwiz/internal/log"
	"regwiz/internal/registration/store"
	"regwiz/internal/tracing"
	"regwiz/internal/watcher"
	"regwiz/internal/wizard"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "regwiz",
	Short:   "A terminal wizard for church event registration",
	Long:    `A terminal registration wizard for the church anniversary event: step-by-step forms, draft saving (local and remote), and final submission to the registration server.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/regwiz/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write a debug log next to the draft database")
	rootCmd.Flags().String("api-url", "",
		"registration server base URL")
	rootCmd.Flags().Bool("no-watch", false,
		"disable draft database watching")

	_ = viper.BindPFlag("api.base_url", rootCmd.Flags().Lookup("api-url"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	viper.SetDefault("draft.path", defaults.Draft.Path)
	viper.SetDefault("draft.auto_reload", defaults.Draft.AutoReload)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.show_progress", defaults.UI.ShowProgress)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .regwiz/config.yaml (current directory)
		// 2. ~/.config/regwiz/config.yaml (user config)
		if _, err := os.Stat(".regwiz/config.yaml"); err == nil {
			viper.SetConfigFile(".regwiz/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "regwiz"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .regwiz/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := filepath.Join(".regwiz", "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanupLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	if cleanupLog != nil {
		defer cleanupLog()
	}

	tracingCfg := cfg.Tracing
	if tracingCfg.Enabled && tracingCfg.Exporter == "file" && tracingCfg.FilePath == "" {
		tracingCfg.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(cmd.Context()) }()

	st := store.New()
	defer st.Close()

	var local *draft.LocalStore
	if cfg.Draft.Path != "" {
		local, err = draft.OpenLocal(cfg.Draft.Path)
		if err != nil {
			// A broken draft db shouldn't keep the wizard from running.
			log.ErrorErr(log.CatDB, "Draft database unavailable", err, "path", cfg.Draft.Path)
			fmt.Fprintf(os.Stderr, "warning: local drafts disabled: %v\n", err)
			local = nil
		} else {
			defer func() { _ = local.Close() }()
		}
	}

	var backend wizard.Backend
	if cfg.API.BaseURL != "" {
		backend = api.New(api.Config{
			BaseURL: cfg.API.BaseURL,
			APIKey:  cfg.API.Key,
			Timeout: cfg.API.Timeout(),
			Tracer:  provider.Tracer(),
		})
	}

	wiz := wizard.New(st, local, backend)

	var changes <-chan struct{}
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if local != nil && cfg.Draft.AutoReload && !noWatch {
		w, werr := watcher.New(watcher.DefaultConfig(local.Path()))
		if werr != nil {
			log.ErrorErr(log.CatDraft, "Draft watcher unavailable", werr)
		} else {
			changes, werr = w.Start()
			if werr != nil {
				log.ErrorErr(log.CatDraft, "Draft watcher failed to start", werr)
				changes = nil
			} else {
				defer func() { _ = w.Stop() }()
			}
		}
	}

	model := app.New(cfg, wiz, changes)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// setupLogging enables the debug log when --debug or REGWIZ_DEBUG is set.
func setupLogging(cmd *cobra.Command) (func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug && os.Getenv("REGWIZ_DEBUG") == "" {
		return nil, nil
	}

	logPath := filepath.Join(filepath.Dir(cfg.Draft.Path), "debug.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	log.Info(log.CatConfig, "Debug logging enabled", "path", logPath)
	return cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
