// Package tui implements the interactive verification form: pick a bank,
// enter a transaction ID or a receipt image path, submit, and review the
// classified result. One verification is in flight at a time; the form is
// locked while submitting.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abenezerh/birr/internal/cli"
	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/present"
	"github.com/abenezerh/birr/internal/service"
)

// VerifyFunc runs one verification attempt and returns its classified
// outcome.
type VerifyFunc func(ctx context.Context, req model.VerificationRequest) model.Outcome

// SuggestFunc returns recent input values for autocomplete. May be nil.
type SuggestFunc func(ctx context.Context, bank model.Bank, field string, limit int) ([]string, error)

type state int

const (
	stateIdle state = iota
	stateSubmitting
	stateResult
)

// Input focus order.
const (
	focusTransactionID = iota
	focusAccount
	focusImagePath
	focusCount
)

// Model is the bubbletea model for the verification form.
type Model struct {
	verify    VerifyFunc
	suggest   SuggestFunc
	result    *present.View
	inputs    []textinput.Model
	lastReq   model.VerificationRequest
	lastImage string
	spin      spinner.Model
	bankIndex int
	mode      model.VerificationMode
	st        state
	focus     int
	width     int
	quitting  bool
}

// New creates the form model.
func New(verify VerifyFunc, suggest SuggestFunc) Model {
	txn := textinput.New()
	txn.Placeholder = "e.g. FT24123ABC45"
	txn.CharLimit = 64
	txn.ShowSuggestions = true
	txn.Focus()

	account := textinput.New()
	account.Placeholder = "sender account number"
	account.CharLimit = 32
	account.ShowSuggestions = true

	image := textinput.New()
	image.Placeholder = "path to receipt image"
	image.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	return Model{
		verify:  verify,
		suggest: suggest,
		inputs:  []textinput.Model{txn, account, image},
		spin:    spin,
		mode:    model.ModeText,
		st:      stateIdle,
	}
}

// Bank returns the currently selected bank.
func (m Model) Bank() model.Bank {
	return model.Banks()[m.bankIndex]
}

// Init loads autocomplete suggestions for the initial bank.
func (m Model) Init() tea.Cmd {
	return m.loadSuggestions()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case suggestionsMsg:
		switch msg.field {
		case service.FieldTransactionID:
			m.inputs[focusTransactionID].SetSuggestions(msg.values)
		case service.FieldAccountNumber:
			m.inputs[focusAccount].SetSuggestions(msg.values)
		}
		return m, nil

	case outcomeMsg:
		view := present.Select(msg.outcome, m.mode == model.ModeText)
		m.result = &view
		m.st = stateResult
		return m, nil

	case spinner.TickMsg:
		if m.st != stateSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key := msg.String(); key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.st {
	case stateSubmitting:
		// Form is locked; no duplicate submissions.
		return m, nil

	case stateResult:
		return m.handleResultKey(msg)

	default:
		return m.handleFormKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.focus--
		} else {
			m.focus++
		}
		m.focus = (m.focus + focusCount) % focusCount
		return m.applyFocus(), nil

	case "ctrl+b":
		m.bankIndex = (m.bankIndex + 1) % len(model.Banks())
		return m, m.loadSuggestions()

	case "ctrl+t":
		if m.mode == model.ModeText {
			m.mode = model.ModeImage
			m.focus = focusImagePath
		} else {
			m.mode = model.ModeText
			m.focus = focusTransactionID
		}
		return m.applyFocus(), nil

	case "enter":
		return m.submit()
	}

	return m.updateInputs(msg)
}

func (m Model) handleResultKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if m.result != nil && m.result.Retryable {
			return m.resubmit()
		}
	case "m":
		if m.result != nil && m.result.Kind == present.ViewManualVerification {
			// Switch to manual entry, pre-filling any extracted ID.
			if m.result.PrefillTransactionID != "" {
				m.inputs[focusTransactionID].SetValue(m.result.PrefillTransactionID)
			}
			m.mode = model.ModeText
			m.focus = focusTransactionID
			m.result = nil
			m.st = stateIdle
			return m.applyFocus(), nil
		}
	case "enter", "esc", "q":
		m.result = nil
		m.st = stateIdle
		return m.applyFocus(), nil
	}
	return m, nil
}

func (m Model) applyFocus() Model {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (Model, tea.Cmd) {
	req := model.VerificationRequest{
		Bank:          m.Bank(),
		Mode:          m.mode,
		TransactionID: strings.TrimSpace(m.inputs[focusTransactionID].Value()),
		AccountNumber: strings.TrimSpace(m.inputs[focusAccount].Value()),
	}
	m.lastReq = req
	m.lastImage = strings.TrimSpace(m.inputs[focusImagePath].Value())
	return m.resubmit()
}

// resubmit re-enters Submitting with the last-used request parameters.
func (m Model) resubmit() (Model, tea.Cmd) {
	m.result = nil
	m.st = stateSubmitting
	return m, tea.Batch(m.spin.Tick, m.verifyCmd(m.lastReq, m.lastImage))
}

func (m Model) verifyCmd(req model.VerificationRequest, imagePath string) tea.Cmd {
	return func() tea.Msg {
		if req.Mode == model.ModeImage && imagePath != "" {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return outcomeMsg{model.ValidationErrorOutcome(
					"Unable to load the receipt image. Please check the file path and try again.")}
			}
			req.Image = &model.ImageAttachment{Filename: filepath.Base(imagePath), Data: data}
		}
		return outcomeMsg{m.verify(context.Background(), req)}
	}
}

func (m Model) loadSuggestions() tea.Cmd {
	if m.suggest == nil {
		return nil
	}
	bank := m.Bank()
	load := func(field string) tea.Cmd {
		return func() tea.Msg {
			values, err := m.suggest(context.Background(), bank, field, 10)
			if err != nil {
				return suggestionsMsg{field: field}
			}
			return suggestionsMsg{field: field, values: values}
		}
	}
	return tea.Batch(load(service.FieldTransactionID), load(service.FieldAccountNumber))
}

// View renders the form.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Verify your payment"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBankTabs())
	b.WriteString("\n\n")

	switch m.st {
	case stateSubmitting:
		b.WriteString(m.spin.View())
		b.WriteString(" Verifying with ")
		b.WriteString(m.Bank().DisplayName())
		b.WriteString("...")

	case stateResult:
		if m.result != nil {
			b.WriteString(cli.RenderView(*m.result))
			b.WriteString("\n")
			b.WriteString(cli.SubtleStyle.Render(m.resultHelp()))
		}

	default:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(cli.SubtleStyle.Render(
			"[Enter] Verify | [Tab] Next field | [Ctrl+B] Bank | [Ctrl+T] Text/Image | [Esc] Quit"))
	}

	return b.String() + "\n"
}

func (m Model) renderBankTabs() string {
	tabs := make([]string, 0, len(model.Banks()))
	for i, bank := range model.Banks() {
		label := " " + bank.DisplayName() + " "
		if i == m.bankIndex {
			tabs = append(tabs, cli.BoldStyle.Foreground(cli.PrimaryColor).Render(label))
		} else {
			tabs = append(tabs, cli.SubtleStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderForm() string {
	var b strings.Builder

	if m.mode == model.ModeText {
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", cli.BoldStyle.Render("Transaction ID"),
			m.inputs[focusTransactionID].View()))
	} else {
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", cli.BoldStyle.Render("Receipt image"),
			m.inputs[focusImagePath].View()))
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", cli.BoldStyle.Render("Transaction ID (optional)"),
			m.inputs[focusTransactionID].View()))
	}

	if m.Bank().RequiresAccount() {
		b.WriteString(fmt.Sprintf("%s\n%s\n", cli.BoldStyle.Render("Account number"),
			m.inputs[focusAccount].View()))
	}

	return b.String()
}

func (m Model) resultHelp() string {
	parts := []string{"[Enter] Close"}
	if m.result.Retryable {
		parts = append(parts, "[R] Retry")
	}
	if m.result.Kind == present.ViewManualVerification {
		parts = append(parts, "[M] Enter ID manually")
	}
	return strings.Join(parts, " | ")
}
