package stepform

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
)

// fieldState holds runtime state for a field.
type fieldState struct {
	config FieldConfig // Original configuration

	// Text/Date field state
	textInput textinput.Model

	// Select field state
	listCursor int
	listItems  []listItem

	// Toggle field state
	toggleIndex int // 0 or 1

	// Counter field state
	count int
}

// listItem tracks selection state for select options.
type listItem struct {
	label    string
	value    string
	selected bool
}

// newFieldState creates a fieldState from a FieldConfig.
func newFieldState(cfg FieldConfig) fieldState {
	fs := fieldState{config: cfg}

	switch cfg.Type {
	case FieldTypeText, FieldTypeDate:
		ti := textinput.New()
		ti.Placeholder = cfg.Placeholder
		if cfg.Type == FieldTypeDate && ti.Placeholder == "" {
			ti.Placeholder = "YYYY-MM-DD"
		}
		ti.Prompt = ""
		if cfg.MaxLength > 0 {
			ti.CharLimit = cfg.MaxLength
		}
		if cfg.InitialValue != "" {
			ti.SetValue(cfg.InitialValue)
		}
		ti.Width = 36 // Fits in a 50-wide step pane
		fs.textInput = ti

	case FieldTypeSelect:
		fs.listItems = make([]listItem, len(cfg.Options))
		for i, opt := range cfg.Options {
			fs.listItems[i] = listItem{
				label:    opt.Label,
				value:    opt.Value,
				selected: opt.Selected,
			}
			if opt.Selected {
				fs.listCursor = i
			}
		}

	case FieldTypeToggle:
		fs.toggleIndex = cfg.InitialToggleIndex
		if fs.toggleIndex < 0 {
			fs.toggleIndex = 0
		} else if fs.toggleIndex > 1 {
			fs.toggleIndex = 1
		}

	case FieldTypeCounter:
		fs.count = clamp(cfg.InitialCount, cfg.Min, cfg.Max)
	}

	return fs
}

// value extracts the current value from the field state.
// Text, date, select and toggle fields yield string; counters yield int.
func (fs *fieldState) value() any {
	switch fs.config.Type {
	case FieldTypeText, FieldTypeDate:
		return fs.textInput.Value()

	case FieldTypeSelect:
		for _, item := range fs.listItems {
			if item.selected {
				return item.value
			}
		}
		return ""

	case FieldTypeToggle:
		if fs.toggleIndex >= 0 && fs.toggleIndex < len(fs.config.Options) {
			return fs.config.Options[fs.toggleIndex].Value
		}
		return ""

	case FieldTypeCounter:
		return fs.count
	}
	return nil
}

// display returns the field's value as shown in a review line.
func (fs *fieldState) display() string {
	switch v := fs.value().(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > lo && v > hi {
		return hi
	}
	return v
}
