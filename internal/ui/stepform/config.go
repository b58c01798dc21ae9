// Package stepform provides a configuration-driven field stack for one
// wizard step.
//
// A step declares its fields once as FieldConfig values; the model owns
// cursor movement, per-type editing keys, and rendering. Validation
// messages are attached per field key with SetErrors and drawn under the
// offending field.
//
// Keyboard navigation:
//
//	Tab, Down      - next field
//	Shift+Tab, Up  - previous field
//	j/k            - move cursor within select fields
//	h/l, ←/→       - flip toggles, adjust counters
//	Space, Enter   - pick the highlighted select option
package stepform

// FieldType identifies the type of form field.
type FieldType int

const (
	// FieldTypeText is a single-line text input.
	// Supports Placeholder, MaxLength, and InitialValue options.
	FieldTypeText FieldType = iota

	// FieldTypeSelect is a single-select list (radio button style).
	// Navigate with j/k; selecting automatically deselects others.
	FieldTypeSelect

	// FieldTypeToggle is a binary selector flipped with h/l.
	// Requires exactly 2 Options. Returns the selected option's Value.
	FieldTypeToggle

	// FieldTypeCounter is an integer stepper adjusted with h/l,
	// clamped to [Min, Max].
	FieldTypeCounter

	// FieldTypeDate is a text input for a YYYY-MM-DD value. The form
	// does not parse it; callers convert on extraction.
	FieldTypeDate
)

// Option represents an item in a select or toggle field.
type Option struct {
	Label    string // Display text
	Value    string // Programmatic value (returned by Values)
	Selected bool   // Initially selected
}

// FieldConfig defines a single form field.
type FieldConfig struct {
	Key   string    // Unique identifier for this field (used in Values)
	Type  FieldType // Type of field
	Label string    // Section label (e.g., "Full Name")
	Hint  string    // Section hint (e.g., "required", "optional")

	// Text/Date field options
	Placeholder  string // Placeholder text
	MaxLength    int    // Character limit (0 = unlimited)
	InitialValue string // Pre-filled value

	// Select/Toggle field options
	Options            []Option
	InitialToggleIndex int // 0 or 1 - which toggle option starts selected

	// Counter field options
	Min          int
	Max          int
	InitialCount int
}

// Config defines a complete step form.
type Config struct {
	Title  string        // Step title displayed at top
	Fields []FieldConfig // Form fields in display order
}
