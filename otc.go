package main

import (
	"fmt"

	"github.com/giygas/pmda-datasets/dataset"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/otcscraper"
	"github.com/giygas/pmda-datasets/pmdaclient"
	"github.com/giygas/pmda-datasets/validation"
	"github.com/spf13/cobra"
)

var (
	otcMaxProducts int
	otcListRows    int
	otcOutputDir   string
)

var otcCmd = &cobra.Command{
	Use:   "otc",
	Short: "Crawl the OTC / quasi-drug catalog",
	Long: "Crawls the PMDA OTC and quasi-drug catalog by enumerating\n" +
		"product-name prefixes, fetches every product's detail page, and\n" +
		"writes the products file plus the ingredient reverse index.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if otcMaxProducts < 0 {
			return fmt.Errorf("--max-products must be >= 0, got %d", otcMaxProducts)
		}
		if otcListRows < 1 || otcListRows > 100 {
			return fmt.Errorf("--list-rows must be 1-100, got %d", otcListRows)
		}

		outputDir := otcOutputDir
		if outputDir == "" {
			outputDir = cfg.DataDir
		}

		client, err := pmdaclient.NewClient(cfg)
		if err != nil {
			return err
		}

		scraper := otcscraper.New(client, validation.NewDataValidator(), otcListRows, otcMaxProducts)
		result, err := scraper.Run()
		if err != nil {
			return err
		}

		if err := dataset.WriteOTCDataset(outputDir, result.Products, result.Metadata); err != nil {
			return err
		}

		logging.Info("OTC crawl finished",
			"products", len(result.Products),
			"failed_codes", len(result.Metadata.DetailFailedCodes),
			"output_dir", outputDir)
		return nil
	},
}

func init() {
	otcCmd.Flags().IntVar(&otcMaxProducts, "max-products", 0, "stop after collecting this many unique products (0 = unlimited)")
	otcCmd.Flags().IntVar(&otcListRows, "list-rows", 100, "result rows requested per search page")
	otcCmd.Flags().StringVar(&otcOutputDir, "output-dir", "", "dataset output directory (default: DATA_DIR)")
	rootCmd.AddCommand(otcCmd)
}
