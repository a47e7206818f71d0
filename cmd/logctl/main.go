package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/logistica-api/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "logctl",
		Short: "logctl - carga masiva y seguimiento de jobs de logistica-api",
	}
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
