package main

import (
	"fmt"
	"time"

	"github.com/giygas/pmda-datasets/dataset"
	"github.com/giygas/pmda-datasets/iyakuscraper"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/pmdaclient"
	"github.com/giygas/pmda-datasets/validation"
	"github.com/spf13/cobra"
)

// The catalog's revision dates reach back to the 1999 fiscal year.
const defaultIyakuFrom = "19990401"

const flagDateLayout = "20060102"

var (
	iyakuFromDate  string
	iyakuToDate    string
	iyakuListRows  int
	iyakuOutputDir string
)

var iyakuCmd = &cobra.Command{
	Use:   "iyaku",
	Short: "Crawl the prescription-drug catalog",
	Long: "Crawls the PMDA prescription-drug catalog by bisecting the insert\n" +
		"revision-date range until every partition fits under the server's\n" +
		"result cap, exports each partition as CSV, and writes the products\n" +
		"file plus the ingredient reverse index.",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := time.Parse(flagDateLayout, iyakuFromDate)
		if err != nil {
			return fmt.Errorf("invalid --from-date %q: expected YYYYMMDD", iyakuFromDate)
		}

		toDate := iyakuToDate
		if toDate == "" {
			toDate = time.Now().Format(flagDateLayout)
		}
		to, err := time.Parse(flagDateLayout, toDate)
		if err != nil {
			return fmt.Errorf("invalid --to-date %q: expected YYYYMMDD", iyakuToDate)
		}

		if to.Before(from) {
			return fmt.Errorf("--to-date %s is before --from-date %s", toDate, iyakuFromDate)
		}
		if iyakuListRows < 1 || iyakuListRows > 100 {
			return fmt.Errorf("--list-rows must be 1-100, got %d", iyakuListRows)
		}

		outputDir := iyakuOutputDir
		if outputDir == "" {
			outputDir = cfg.DataDir
		}

		client, err := pmdaclient.NewClient(cfg)
		if err != nil {
			return err
		}

		scraper := iyakuscraper.New(client.Iyaku(), validation.NewDataValidator(), iyakuListRows, cfg.MaxSearchCount)
		result, err := scraper.Run(from, to)
		if err != nil {
			return err
		}

		if err := dataset.WriteIyakuDataset(outputDir, result.Products, result.Partitions, result.Metadata); err != nil {
			return err
		}

		logging.Info("Prescription crawl finished",
			"products", len(result.Products),
			"partitions", len(result.Partitions),
			"failed_partitions", len(result.Metadata.FailedPartitions),
			"output_dir", outputDir)
		return nil
	},
}

func init() {
	iyakuCmd.Flags().StringVar(&iyakuFromDate, "from-date", defaultIyakuFrom, "start of the revision-date range (YYYYMMDD)")
	iyakuCmd.Flags().StringVar(&iyakuToDate, "to-date", "", "end of the revision-date range (YYYYMMDD, default today)")
	iyakuCmd.Flags().IntVar(&iyakuListRows, "list-rows", 100, "result rows requested per probe search")
	iyakuCmd.Flags().StringVar(&iyakuOutputDir, "output-dir", "", "dataset output directory (default: DATA_DIR)")
	rootCmd.AddCommand(iyakuCmd)
}
