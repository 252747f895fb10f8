package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/abenezerh/birr/internal/cli"
	"github.com/abenezerh/birr/internal/gateway"
	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/present"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <cbe|boa|telebirr>",
		Short: "Verify a payment once and print the result",
		Long: `Verify a single payment against the selected bank's backend.

Text mode (--transaction-id) checks a transaction reference directly.
Image mode (--image) uploads a receipt for the backend to read; if it cannot
extract a transaction ID you will be asked to enter one manually.`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().StringP("transaction-id", "t", "", "Transaction reference to verify")
	cmd.Flags().StringP("account", "a", "", "Sender account number (required for CBE and BOA)")
	cmd.Flags().StringP("image", "i", "", "Path to a receipt image to upload")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	bank, err := model.ParseBank(args[0])
	if err != nil {
		return err
	}

	transactionID, _ := cmd.Flags().GetString("transaction-id")
	account, _ := cmd.Flags().GetString("account")
	imagePath, _ := cmd.Flags().GetString("image")

	req := model.VerificationRequest{
		Bank:          bank,
		Mode:          model.ModeText,
		TransactionID: transactionID,
		AccountNumber: account,
	}
	if imagePath != "" {
		req.Mode = model.ModeImage
		image, loadErr := loadReceiptImage(imagePath)
		if loadErr != nil {
			view := present.Select(model.ValidationErrorOutcome(
				fmt.Sprintf("Unable to load the receipt image: %v", loadErr)), false)
			fmt.Println(cli.RenderView(view))
			os.Exit(1)
		}
		req.Image = image
	}

	store := openHistory()
	defer closeHistory(store)
	gw := gateway.New(newTransport(), store)

	outcome := gw.Verify(ctx, req)

	// Text mode is already manual entry; route a manual-verification signal
	// to the error view there.
	view := present.Select(outcome, req.Mode == model.ModeText)
	fmt.Println(cli.RenderView(view))

	if outcome.Kind != model.OutcomeSuccess {
		closeHistory(store)
		os.Exit(1)
	}
	return nil
}

// loadReceiptImage reads the receipt into memory with a progress bar, since
// camera exports can run to several megabytes.
func loadReceiptImage(path string) (*model.ImageAttachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := progressbar.DefaultBytes(info.Size(), "reading receipt")
	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, bar), f); err != nil {
		return nil, err
	}

	return &model.ImageAttachment{
		Filename: filepath.Base(path),
		Data:     buf.Bytes(),
	}, nil
}
