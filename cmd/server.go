/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quill-blog/server/internal/server"
)

var skipMigrate bool

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the blog server",
	Long: `Starts the blog server. Usage:

	quill server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if skipMigrate {
			cfg.Database.AutoMigrate = false
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply database migrations on startup")
}
