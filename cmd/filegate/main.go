package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/filegate-io/filegate/internal/interfaces/cli/cleanup"
	"github.com/filegate-io/filegate/internal/interfaces/cli/migrate"
	"github.com/filegate-io/filegate/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "filegate",
		Short: "filegate - protected file delivery gateway",
		Long:  `filegate gates access to a shared upload tree: layered allow/deny rules, capability tokens, verified-crawler detection, and host session authentication.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		cleanup.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
