package stepform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Title: "Test Step",
		Fields: []FieldConfig{
			{Key: "name", Type: FieldTypeText, Label: "Name", Placeholder: "your name"},
			{Key: "transport", Type: FieldTypeSelect, Label: "Transport", Options: []Option{
				{Label: "Plane", Value: "plane", Selected: true},
				{Label: "Train", Value: "train"},
				{Label: "Bus", Value: "bus"},
			}},
			{Key: "attending", Type: FieldTypeToggle, Label: "Attending", Options: []Option{
				{Label: "Yes", Value: "yes"},
				{Label: "No", Value: "no"},
			}},
			{Key: "tickets", Type: FieldTypeCounter, Label: "Tickets", Min: 0, Max: 5, InitialCount: 1},
			{Key: "arrival", Type: FieldTypeDate, Label: "Arrival"},
		},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next
}

func TestNew_FocusesFirstField(t *testing.T) {
	m := New(testConfig())

	require.Equal(t, 0, m.focusedIndex)
	require.True(t, m.fields[0].textInput.Focused())
}

func TestValues_InitialState(t *testing.T) {
	m := New(testConfig())

	values := m.Values()

	require.Equal(t, "", values["name"])
	require.Equal(t, "plane", values["transport"])
	require.Equal(t, "yes", values["attending"])
	require.Equal(t, 1, values["tickets"])
	require.Equal(t, "", values["arrival"])
}

func TestUpdate_TabCyclesFocus(t *testing.T) {
	m := New(testConfig())

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 1, m.focusedIndex)
	require.False(t, m.fields[0].textInput.Focused())

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, 0, m.focusedIndex)
	require.True(t, m.fields[0].textInput.Focused())

	// Wraps around from the first field.
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, len(m.fields)-1, m.focusedIndex)
}

func TestUpdate_TextInputReceivesRunes(t *testing.T) {
	m := New(testConfig())

	for _, r := range "An" {
		m = press(m, keyRune(r))
	}

	require.Equal(t, "An", m.Values()["name"])
}

func TestUpdate_SelectCursorAndPick(t *testing.T) {
	m := New(testConfig())
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}) // focus transport

	m = press(m, keyRune('j'))
	m = press(m, keyRune('j'))
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, "bus", m.Values()["transport"])

	// Cursor clamps at the last option.
	m = press(m, keyRune('j'))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "bus", m.Values()["transport"])

	m = press(m, keyRune('k'))
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, "train", m.Values()["transport"])
}

func TestUpdate_ToggleFlips(t *testing.T) {
	m := New(testConfig())
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab}) // focus attending

	m = press(m, keyRune('l'))
	require.Equal(t, "no", m.Values()["attending"])

	m = press(m, keyRune('h'))
	require.Equal(t, "yes", m.Values()["attending"])
}

func TestUpdate_CounterClampsAtBounds(t *testing.T) {
	m := New(testConfig())
	for range 3 {
		m = press(m, tea.KeyMsg{Type: tea.KeyTab}) // focus tickets
	}

	for range 10 {
		m = press(m, keyRune('+'))
	}
	require.Equal(t, 5, m.Values()["tickets"])

	for range 10 {
		m = press(m, keyRune('-'))
	}
	require.Equal(t, 0, m.Values()["tickets"])
}

func TestSetValue_AllFieldTypes(t *testing.T) {
	m := New(testConfig())

	m = m.SetValue("name", "Nguyễn Văn An")
	m = m.SetValue("transport", "train")
	m = m.SetValue("attending", "no")
	m = m.SetValue("tickets", 3)
	m = m.SetValue("arrival", "2026-10-02")

	values := m.Values()
	require.Equal(t, "Nguyễn Văn An", values["name"])
	require.Equal(t, "train", values["transport"])
	require.Equal(t, "no", values["attending"])
	require.Equal(t, 3, values["tickets"])
	require.Equal(t, "2026-10-02", values["arrival"])
}

func TestSetValue_CounterClamped(t *testing.T) {
	m := New(testConfig())

	m = m.SetValue("tickets", 99)

	require.Equal(t, 5, m.Values()["tickets"])
}

func TestSetValue_UnknownKeyIgnored(t *testing.T) {
	m := New(testConfig())

	before := m.Values()
	m = m.SetValue("missing", "whatever")

	require.Equal(t, before, m.Values())
}

func TestSetErrors_RenderedUnderField(t *testing.T) {
	m := New(testConfig())

	m = m.SetErrors(map[string]string{"name": "Full name is required"})
	require.True(t, m.HasErrors())
	require.Contains(t, m.View(), "Full name is required")

	m = m.SetErrors(nil)
	require.False(t, m.HasErrors())
	require.NotContains(t, m.View(), "Full name is required")
}

func TestView_ShowsTitleAndMarkers(t *testing.T) {
	m := New(testConfig())

	view := m.View()

	require.Contains(t, view, "Test Step")
	require.Contains(t, view, "● Plane")
	require.Contains(t, view, "○ Train")
}

func TestDateField_DefaultPlaceholder(t *testing.T) {
	m := New(testConfig())

	require.Equal(t, "YYYY-MM-DD", m.fields[4].textInput.Placeholder)
}
