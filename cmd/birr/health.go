package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abenezerh/birr/internal/cli"
	"github.com/abenezerh/birr/internal/gateway"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the verification backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw := gateway.New(newTransport(), nil)
			if err := gw.Health(cmd.Context()); err != nil {
				fmt.Println(cli.FormatError("✗ Backend is not reachable"))
				return err
			}
			fmt.Println(cli.FormatSuccess("✓ Backend is running"))
			fmt.Println(cli.SubtleStyle.Render(viper.GetString("api.base_url")))
			return nil
		},
	}
}
