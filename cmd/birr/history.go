package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abenezerh/birr/internal/cli"
	"github.com/abenezerh/birr/internal/common"
	"github.com/abenezerh/birr/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <cbe|boa|telebirr>",
		Short: "Show recent verification attempts for a bank",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	cmd.AddCommand(historyClearCmd())
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	bank, err := model.ParseBank(args[0])
	if err != nil {
		return err
	}

	store := openHistory()
	if store == nil {
		return common.NewUserError("history store is unavailable", nil)
	}
	defer closeHistory(store)

	entries, err := store.List(cmd.Context(), bank)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No verification attempts recorded for " + bank.DisplayName() + "."))
		return nil
	}

	fmt.Println(cli.FormatTitle(bank.DisplayName() + " verification history"))
	for _, entry := range entries {
		line := fmt.Sprintf("%s  %-8s  %-20s",
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			entry.Status,
			orDash(entry.TransactionID))
		switch entry.Status {
		case model.AttemptSuccess:
			fmt.Println(cli.FormatSuccess(line))
		case model.AttemptFailed:
			if entry.ErrorKind != "" {
				line += "  " + string(entry.ErrorKind)
			}
			fmt.Println(cli.FormatError(line))
		default:
			fmt.Println(cli.SubtleStyle.Render(line))
		}
	}
	return nil
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [cbe|boa|telebirr]",
		Short: "Clear verification history for one bank, or all banks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openHistory()
			if store == nil {
				return common.NewUserError("history store is unavailable", nil)
			}
			defer closeHistory(store)

			banks := model.Banks()
			if len(args) == 1 {
				bank, err := model.ParseBank(args[0])
				if err != nil {
					return err
				}
				banks = []model.Bank{bank}
			}
			for _, bank := range banks {
				if err := store.Clear(cmd.Context(), bank); err != nil {
					return fmt.Errorf("failed to clear %s history: %w", bank, err)
				}
			}
			fmt.Println(cli.FormatSuccess("✓ History cleared"))
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
