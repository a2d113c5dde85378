// Command pmda-datasets crawls the PMDA drug-search site into JSON
// datasets and optionally serves them over HTTP.
//
// Subcommands: otc (OTC / quasi-drug catalog), iyaku (prescription
// catalog), serve (HTTP API over the written datasets with scheduled
// refresh).
package main

import (
	"fmt"
	"os"

	"github.com/giygas/pmda-datasets/config"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pmda-datasets",
	Short: "PMDA drug-search crawler and dataset server",
	Long: "pmda-datasets crawls the PMDA (Pharmaceuticals and Medical Devices\n" +
		"Agency) drug-search site into JSON datasets with ingredient reverse\n" +
		"indexes, and can serve the datasets over HTTP.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; real environments set variables directly.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		logging.InitLogger(cfg.LogDir, logging.ParseLevel(cfg.LogLevel))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
