package stepform

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"regwiz/internal/ui/styles"
)

// Model is the step form state.
//
// Model is immutable - all methods return a new Model rather than
// modifying the receiver.
type Model struct {
	config       Config
	fields       []fieldState
	focusedIndex int

	// errors maps field keys to validation messages drawn under the field.
	errors map[string]string
}

// New creates a step form with focus on the first field.
func New(cfg Config) Model {
	m := Model{
		config: cfg,
		fields: make([]fieldState, len(cfg.Fields)),
		errors: map[string]string{},
	}

	for i, fieldCfg := range cfg.Fields {
		m.fields[i] = newFieldState(fieldCfg)
	}

	if len(m.fields) > 0 {
		m = m.focusField(0)
	}

	return m
}

// Init returns a cursor blink command when the focused field takes text.
func (m Model) Init() tea.Cmd {
	if fs := m.focused(); fs != nil {
		switch fs.config.Type {
		case FieldTypeText, FieldTypeDate:
			return textinput.Blink
		}
	}
	return nil
}

// Update handles key messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocusedInput(msg)
	}

	switch keyMsg.String() {
	case "tab", "down":
		return m.nextField(), nil
	case "shift+tab", "up":
		return m.prevField(), nil
	}

	fs := m.focused()
	if fs == nil {
		return m, nil
	}

	switch fs.config.Type {
	case FieldTypeText, FieldTypeDate:
		return m.updateFocusedInput(msg)

	case FieldTypeSelect:
		switch keyMsg.String() {
		case "j":
			if fs.listCursor < len(fs.listItems)-1 {
				fs.listCursor++
			}
		case "k":
			if fs.listCursor > 0 {
				fs.listCursor--
			}
		case " ", "enter":
			for i := range fs.listItems {
				fs.listItems[i].selected = i == fs.listCursor
			}
		}
		return m, nil

	case FieldTypeToggle:
		switch keyMsg.String() {
		case "h", "left", "l", "right", " ":
			fs.toggleIndex = 1 - fs.toggleIndex
		}
		return m, nil

	case FieldTypeCounter:
		switch keyMsg.String() {
		case "l", "right", "+":
			fs.count = clamp(fs.count+1, fs.config.Min, fs.config.Max)
		case "h", "left", "-":
			fs.count = clamp(fs.count-1, fs.config.Min, fs.config.Max)
		}
		return m, nil
	}

	return m, nil
}

// updateFocusedInput forwards msg to the focused text input, if any.
func (m Model) updateFocusedInput(msg tea.Msg) (Model, tea.Cmd) {
	fs := m.focused()
	if fs == nil {
		return m, nil
	}
	switch fs.config.Type {
	case FieldTypeText, FieldTypeDate:
		var cmd tea.Cmd
		fs.textInput, cmd = fs.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) focused() *fieldState {
	if m.focusedIndex < 0 || m.focusedIndex >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focusedIndex]
}

func (m Model) nextField() Model {
	if len(m.fields) == 0 {
		return m
	}
	return m.focusField((m.focusedIndex + 1) % len(m.fields))
}

func (m Model) prevField() Model {
	if len(m.fields) == 0 {
		return m
	}
	return m.focusField((m.focusedIndex - 1 + len(m.fields)) % len(m.fields))
}

func (m Model) focusField(index int) Model {
	if fs := m.focused(); fs != nil {
		fs.textInput.Blur()
	}
	m.focusedIndex = index
	if fs := m.focused(); fs != nil {
		switch fs.config.Type {
		case FieldTypeText, FieldTypeDate:
			fs.textInput.Focus()
		}
	}
	return m
}

// Values returns all field values keyed by FieldConfig.Key.
// Text, date, select and toggle fields yield string; counters yield int.
func (m Model) Values() map[string]any {
	values := make(map[string]any, len(m.fields))
	for i := range m.fields {
		values[m.fields[i].config.Key] = m.fields[i].value()
	}
	return values
}

// SetValue overwrites a field's current value, used when loading a draft
// into an already-built form.
func (m Model) SetValue(key string, value any) Model {
	for i := range m.fields {
		fs := &m.fields[i]
		if fs.config.Key != key {
			continue
		}
		switch fs.config.Type {
		case FieldTypeText, FieldTypeDate:
			if s, ok := value.(string); ok {
				fs.textInput.SetValue(s)
			}
		case FieldTypeSelect:
			if s, ok := value.(string); ok {
				for j := range fs.listItems {
					fs.listItems[j].selected = fs.listItems[j].value == s
					if fs.listItems[j].selected {
						fs.listCursor = j
					}
				}
			}
		case FieldTypeToggle:
			if s, ok := value.(string); ok {
				for j, opt := range fs.config.Options {
					if opt.Value == s && j < 2 {
						fs.toggleIndex = j
					}
				}
			}
		case FieldTypeCounter:
			if n, ok := value.(int); ok {
				fs.count = clamp(n, fs.config.Min, fs.config.Max)
			}
		}
		break
	}
	return m
}

// SetErrors attaches validation messages keyed by field key. A nil map
// clears all errors.
func (m Model) SetErrors(errs map[string]string) Model {
	if errs == nil {
		errs = map[string]string{}
	}
	m.errors = errs
	return m
}

// HasErrors reports whether any validation message is attached.
func (m Model) HasErrors() bool {
	return len(m.errors) > 0
}

// View renders the field stack.
func (m Model) View() string {
	var b strings.Builder

	if m.config.Title != "" {
		b.WriteString(styles.StepTitleStyle.Render(m.config.Title))
		b.WriteString("\n\n")
	}

	for i := range m.fields {
		fs := &m.fields[i]
		focused := i == m.focusedIndex

		b.WriteString(m.renderLabel(fs, focused))
		b.WriteString("\n")
		b.WriteString(m.renderControl(fs, focused))
		b.WriteString("\n")

		if msg, ok := m.errors[fs.config.Key]; ok {
			b.WriteString(styles.FieldErrorStyle.Render("  " + msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderLabel(fs *fieldState, focused bool) string {
	labelStyle := styles.FieldLabelStyle
	if focused {
		labelStyle = styles.FieldLabelFocusedStyle
	}
	label := labelStyle.Render(fs.config.Label)
	if fs.config.Hint != "" {
		label += " " + styles.FieldHintStyle.Render("("+fs.config.Hint+")")
	}
	return label
}

func (m Model) renderControl(fs *fieldState, focused bool) string {
	switch fs.config.Type {
	case FieldTypeText, FieldTypeDate:
		return "  " + fs.textInput.View()

	case FieldTypeSelect:
		var lines []string
		for j, item := range fs.listItems {
			cursor := "  "
			if focused && j == fs.listCursor {
				cursor = styles.SelectionIndicatorStyle.Render("> ")
			}
			marker := "○"
			if item.selected {
				marker = "●"
			}
			lines = append(lines, "  "+cursor+marker+" "+item.label)
		}
		return strings.Join(lines, "\n")

	case FieldTypeToggle:
		var parts []string
		for j, opt := range fs.config.Options {
			marker := "○"
			if j == fs.toggleIndex {
				marker = "●"
			}
			parts = append(parts, marker+" "+opt.Label)
		}
		line := "  " + strings.Join(parts, "    ")
		if focused {
			line += styles.FieldHintStyle.Render("  [←/→]")
		}
		return line

	case FieldTypeCounter:
		line := "  " + lipgloss.NewStyle().Bold(focused).Render(fs.display())
		if focused {
			line += styles.FieldHintStyle.Render("  [−/+]")
		}
		return line
	}
	return ""
}
