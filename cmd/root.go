package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/marketplace/internal/app"
	"github.com/nguyentranbao-ct/marketplace/internal/server"
)

var rootCmd = &cobra.Command{
	Use:           "marketplace",
	Short:         "Marketplace product service",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Run:   serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) {
	app.Invoke(server.StartServer).Run()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
