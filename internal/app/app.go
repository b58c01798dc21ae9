// Package app wires the wizard into a Bubble Tea program: one step form
// at a time, a progress bar over the effective sequence, draft save/load
// actions, and the final submission flow.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"regwiz/internal/api"
	"regwiz/internal/config"
	"regwiz/internal/log"
	"regwiz/internal/registration"
	"regwiz/internal/registration/steps"
	"regwiz/internal/ui/overlay"
	"regwiz/internal/ui/stepform"
	"regwiz/internal/ui/styles"
	"regwiz/internal/ui/toaster"
	"regwiz/internal/wizard"
)

const (
	toastDuration  = 3 * time.Second
	requestTimeout = 60 * time.Second

	// selfWriteWindow is how long after our own draft-db write the
	// watcher's change notification is treated as an echo, not another
	// process saving.
	selfWriteWindow = 2 * time.Second
)

// mode selects which surface owns the keyboard.
type mode int

const (
	modeForm mode = iota
	modeEmailPrompt
	modeComplete
)

// Async operation results.
type (
	submitDoneMsg     struct{ err error }
	remoteSaveDoneMsg struct{ err error }
	remoteLoadDoneMsg struct{ err error }
	draftChangedMsg   struct{}
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg  config.Config
	wiz  *wizard.Wizard
	step steps.ID
	form stepform.Model

	prog       progress.Model
	toast      toaster.Model
	emailInput textinput.Model
	mode       mode

	// banner holds step-level validation messages with no field to
	// attach to.
	banner []string

	// changes delivers debounced draft-db notifications; nil when the
	// watcher is disabled.
	changes <-chan struct{}

	submitting    bool
	width, height int

	// lastLocalWrite is when we last wrote the draft db ourselves (local
	// save, or the post-submit clear); change events inside the window
	// are our own echo.
	lastLocalWrite time.Time
}

// New creates the root model. changes may be nil when draft watching is
// disabled.
func New(cfg config.Config, wiz *wizard.Wizard, changes <-chan struct{}) Model {
	email := textinput.New()
	email.Placeholder = "you@example.org"
	email.Prompt = ""
	email.Width = 36

	m := Model{
		cfg:        cfg,
		wiz:        wiz,
		prog:       progress.New(progress.WithDefaultGradient()),
		toast:      toaster.New(),
		emailInput: email,
		changes:    changes,
	}
	m = m.rebuildForm()
	return m
}

// Init starts cursor blinking and the draft-change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.waitForChange())
}

// Update routes messages by mode and kind.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prog.Width = min(msg.Width-6, 50)
		return m, nil

	case toaster.DismissMsg:
		m.toast = m.toast.Hide()
		return m, nil

	case draftChangedMsg:
		if !m.lastLocalWrite.IsZero() && time.Since(m.lastLocalWrite) < selfWriteWindow {
			return m, m.waitForChange()
		}
		log.Info(log.CatDraft, "Draft database changed on disk")
		m.toast = m.toast.Show("Local draft changed - ctrl+o reloads it", toaster.StyleInfo)
		return m, tea.Batch(toaster.ScheduleDismiss(toastDuration), m.waitForChange())

	case submitDoneMsg:
		return m.finishSubmit(msg.err)

	case remoteSaveDoneMsg:
		if msg.err != nil {
			return m.showError("Remote save failed: " + friendlyError(msg.err))
		}
		return m.showSuccess("Draft saved to server")

	case remoteLoadDoneMsg:
		if msg.err != nil {
			return m.showError(friendlyError(msg.err))
		}
		m.mode = modeForm
		m = m.rebuildForm()
		return m.showSuccess("Draft loaded from server")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeComplete:
		switch msg.String() {
		case "n":
			m.wiz.Reset()
			m.mode = modeForm
			m = m.rebuildForm()
			return m, m.form.Init()
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil

	case modeEmailPrompt:
		switch msg.String() {
		case "esc":
			m.mode = modeForm
			return m, nil
		case "enter":
			email := strings.TrimSpace(m.emailInput.Value())
			if email == "" {
				return m, nil
			}
			return m, m.remoteLoadCmd(email)
		}
		var cmd tea.Cmd
		m.emailInput, cmd = m.emailInput.Update(msg)
		return m, cmd
	}

	// modeForm
	switch msg.String() {
	case "ctrl+n":
		return m.attemptNext()
	case "ctrl+p":
		return m.goBack()
	case "ctrl+s":
		return m.saveLocal()
	case "ctrl+u":
		return m.saveRemote()
	case "ctrl+o":
		return m.loadLocal()
	case "ctrl+e":
		return m.promptRemoteLoad()
	case "enter":
		if m.step == steps.Review {
			return m.startSubmit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// attemptNext applies the step's values and advances when validation
// passes. On the last step it submits instead.
func (m Model) attemptNext() (tea.Model, tea.Cmd) {
	if err := m.applyCurrent(); err != nil {
		return m.showError(err.Error())
	}

	result := m.wiz.Next()
	switch {
	case result.AtEnd:
		return m.startSubmit()
	case result.Moved:
		m = m.rebuildForm()
		return m, m.form.Init()
	default:
		fieldErrs, banner := splitErrors(m.form, result.Validation)
		m.form = m.form.SetErrors(fieldErrs)
		m.banner = banner
		return m, nil
	}
}

func (m Model) goBack() (tea.Model, tea.Cmd) {
	// Best effort: entered values survive going back, but conversion
	// failures never block backward movement.
	if err := m.applyCurrent(); err != nil {
		log.Warn(log.CatForm, "Discarding unparseable values on back", "step", m.step, "reason", err.Error())
	}
	if result := m.wiz.Back(); result.Moved {
		m = m.rebuildForm()
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) saveLocal() (tea.Model, tea.Cmd) {
	if err := m.applyCurrent(); err != nil {
		return m.showError(err.Error())
	}
	if err := m.wiz.SaveDraftLocal(); err != nil {
		return m.showError("Local save failed: " + friendlyError(err))
	}
	m.lastLocalWrite = time.Now()
	return m.showSuccess("Draft saved locally")
}

func (m Model) loadLocal() (tea.Model, tea.Cmd) {
	found, err := m.wiz.LoadDraftLocal()
	if err != nil {
		return m.showError("Local load failed: " + friendlyError(err))
	}
	if !found {
		return m.showInfo("No local draft to load")
	}
	m = m.rebuildForm()
	m.toast = m.toast.Show("Draft loaded", toaster.StyleSuccess)
	return m, tea.Batch(toaster.ScheduleDismiss(toastDuration), m.form.Init())
}

func (m Model) saveRemote() (tea.Model, tea.Cmd) {
	if err := m.applyCurrent(); err != nil {
		return m.showError(err.Error())
	}
	wiz := m.wiz
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return remoteSaveDoneMsg{err: wiz.SaveDraftRemote(ctx)}
	}
}

func (m Model) promptRemoteLoad() (tea.Model, tea.Cmd) {
	m.mode = modeEmailPrompt
	m.emailInput.SetValue(m.wiz.Store().Data().PersonalInfo.Email)
	m.emailInput.Focus()
	return m, textinput.Blink
}

func (m Model) remoteLoadCmd(email string) tea.Cmd {
	wiz := m.wiz
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return remoteLoadDoneMsg{err: wiz.LoadDraftRemote(ctx, email)}
	}
}

func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m.showInfo("Submission already in progress")
	}
	m.submitting = true
	wiz := m.wiz
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return submitDoneMsg{err: wiz.Submit(ctx)}
	}
}

func (m Model) finishSubmit(err error) (tea.Model, tea.Cmd) {
	m.submitting = false
	if err == nil {
		// Submission just cleared the local draft; that write is ours.
		m.lastLocalWrite = time.Now()
		m.mode = modeComplete
		return m, nil
	}

	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		fieldErrs, banner := splitErrors(m.form, verr.Result)
		m.form = m.form.SetErrors(fieldErrs)
		m.banner = banner
		return m.showError(fmt.Sprintf("Fix %d validation errors first", len(verr.Result.Errors)))
	}
	return m.showError("Submission failed: " + friendlyError(err))
}

// applyCurrent writes the visible form's values back into the store.
func (m Model) applyCurrent() error {
	if m.step == steps.Review {
		return nil
	}
	return applyStep(m.step, m.form.Values(), m.wiz.Store())
}

// rebuildForm recreates the field stack for the wizard's current step.
func (m Model) rebuildForm() Model {
	m.step = m.wiz.Current()
	m.form = buildForm(m.step, m.wiz.Store().Data())
	m.banner = nil
	return m
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return draftChangedMsg{}
	}
}

func (m Model) showError(msg string) (tea.Model, tea.Cmd) {
	m.toast = m.toast.Show(msg, toaster.StyleError)
	return m, toaster.ScheduleDismiss(toastDuration)
}

func (m Model) showSuccess(msg string) (tea.Model, tea.Cmd) {
	m.toast = m.toast.Show(msg, toaster.StyleSuccess)
	return m, toaster.ScheduleDismiss(toastDuration)
}

func (m Model) showInfo(msg string) (tea.Model, tea.Cmd) {
	m.toast = m.toast.Show(msg, toaster.StyleInfo)
	return m, toaster.ScheduleDismiss(toastDuration)
}

// friendlyError turns client errors into a short user-facing line.
func friendlyError(err error) string {
	var notFound *api.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	var server *api.ServerError
	if errors.As(err, &server) {
		return server.Message
	}
	switch {
	case errors.Is(err, wizard.ErrSubmitPending):
		return "a submission is already in progress"
	case errors.Is(err, wizard.ErrNoBackend):
		return "no server configured (set api.base_url)"
	case errors.Is(err, wizard.ErrNoLocalStore):
		return "local draft storage is disabled"
	}
	return err.Error()
}

// View renders the whole screen.
func (m Model) View() string {
	if m.mode == modeComplete {
		return m.completeView()
	}

	data := m.wiz.Store().Data()
	seq := steps.EffectiveSequence(data)
	pos := stepPosition(m.step, seq)

	var b strings.Builder

	header := styles.StepTitleStyle.Render("Event Registration")
	counter := styles.StepCounterStyle.Render(fmt.Sprintf("  Step %d of %d", pos, len(seq)))
	b.WriteString(header + counter + "\n")

	if m.cfg.UI.ShowProgress {
		b.WriteString(m.prog.ViewAs(float64(m.wiz.Progress()) / 100.0))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.step == steps.Review {
		b.WriteString(styles.StepTitleStyle.Render(m.step.Title()))
		b.WriteString("\n\n")
		b.WriteString(renderReview(data, m.width-4))
	} else {
		b.WriteString(m.form.View())
	}
	b.WriteString("\n")

	if m.step == steps.Payment {
		b.WriteString("\n" + bankDetailsView() + "\n")
	}

	for _, line := range m.banner {
		b.WriteString(styles.FieldErrorStyle.Render("• "+line) + "\n")
	}

	b.WriteString("\n" + m.helpView())

	view := b.String()
	if m.mode == modeEmailPrompt {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.emailPromptView(), view)
	}

	return m.toast.Overlay(view, m.width, m.height)
}

func (m Model) completeView() string {
	total := formatVND(registration.Total(m.wiz.Store().Data()))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.StatusSuccessColor).
		Padding(1, 3).
		Render("✅ Registration submitted\n\nTotal: " + total + "\n\n" +
			styles.HelpStyle.Render("n: new registration · q: quit"))

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) emailPromptView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render("Load draft by email")
	hint := styles.FieldHintStyle.Render("enter: load · esc: cancel")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(1, 2).
		Render(title + "\n\n" + m.emailInput.View() + "\n\n" + hint)
}

func (m Model) helpView() string {
	parts := []string{
		"ctrl+n next", "ctrl+p back",
		"ctrl+s save", "ctrl+o load",
		"ctrl+u upload", "ctrl+e fetch",
	}
	if m.step == steps.Review {
		if m.submitting {
			parts = append([]string{"submitting..."}, parts...)
		} else {
			parts = append([]string{"enter submit"}, parts...)
		}
	}
	parts = append(parts, "ctrl+c quit")
	return styles.HelpStyle.Render(strings.Join(parts, " · "))
}

func bankDetailsView() string {
	bank := registration.TransferBank
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.BorderDefaultColor).
		Padding(0, 1).
		Render(fmt.Sprintf("Transfer to %s %s\nReference: %s",
			bank.Bank, bank.AccountNumber, bank.Reference))
}

// stepPosition is the 1-based index of id within seq, clamped to 1 when
// the step just fell out of the effective sequence.
func stepPosition(id steps.ID, seq []steps.ID) int {
	for i, s := range seq {
		if s == id {
			return i + 1
		}
	}
	return 1
}
