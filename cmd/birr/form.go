package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abenezerh/birr/internal/gateway"
	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/tui"
)

func formCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive verification form",
		Long: `Open a terminal form to verify payments interactively.

Previous transaction IDs and account numbers are suggested as you type.`,
		RunE: runForm,
	}
}

// formModel adapts tui.Model to tea.Model; bubbletea wants interface-typed
// returns from Update.
type formModel struct {
	tui.Model
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	inner, cmd := m.Model.Update(msg)
	return formModel{inner}, cmd
}

func runForm(cmd *cobra.Command, _ []string) error {
	store := openHistory()
	defer closeHistory(store)
	gw := gateway.New(newTransport(), store)

	var suggest tui.SuggestFunc
	if store != nil {
		suggest = func(ctx context.Context, bank model.Bank, field string, limit int) ([]string, error) {
			return store.RecentValues(ctx, bank, field, limit)
		}
	}

	form := tui.New(gw.Verify, suggest)
	program := tea.NewProgram(formModel{form}, tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("form exited with error: %w", err)
	}
	return nil
}
