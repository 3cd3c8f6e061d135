package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/highfiveapp/highfive_backend/cmd/http"
	systemcmd "github.com/highfiveapp/highfive_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "highfive",
	Short: "HighFive accounting connector for the booking platform.",
	Long: `HighFive receives booking-platform webhooks, keeps partners,
branches, units and commission rules in sync, and turns confirmed
bookings into posted invoices, vendor bills and payments.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
