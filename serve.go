package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/pmda-datasets/dataset"
	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/iyakuscraper"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/otcscraper"
	"github.com/giygas/pmda-datasets/pmdaclient"
	"github.com/giygas/pmda-datasets/scheduler"
	"github.com/giygas/pmda-datasets/server"
	"github.com/giygas/pmda-datasets/validation"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the datasets over HTTP with scheduled refresh",
	Long: "Loads the dataset files from DATA_DIR, serves them over HTTP, and\n" +
		"re-crawls both catalogs daily at REFRESH_AT. When no dataset files\n" +
		"exist yet the first crawl runs at startup.",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := dataset.NewContainer()
		validator := validation.NewDataValidator()

		snapshot, err := dataset.LoadFromDir(cfg.DataDir)
		if err != nil {
			return err
		}

		startEmpty := len(snapshot.OTCProducts) == 0 && len(snapshot.IyakuProducts) == 0
		if !startEmpty {
			container.Swap(snapshot)
		}

		sched := scheduler.NewScheduler(container, refreshDatasets, cfg.RefreshAt, startEmpty)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		srv := server.NewServer(cfg, container, validator)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logging.Info("Received shutdown signal", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

// refreshDatasets re-crawls both catalogs, persists the dataset files, and
// returns the combined snapshot for the atomic swap.
func refreshDatasets() (*entities.DatasetSnapshot, error) {
	client, err := pmdaclient.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	validator := validation.NewDataValidator()

	otcResult, err := otcscraper.New(client, validator, 100, 0).Run()
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteOTCDataset(cfg.DataDir, otcResult.Products, otcResult.Metadata); err != nil {
		return nil, err
	}

	from, _ := time.Parse(flagDateLayout, defaultIyakuFrom)
	iyakuResult, err := iyakuscraper.New(client.Iyaku(), validator, 100, cfg.MaxSearchCount).Run(from, time.Now())
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteIyakuDataset(cfg.DataDir, iyakuResult.Products, iyakuResult.Partitions, iyakuResult.Metadata); err != nil {
		return nil, err
	}

	return &entities.DatasetSnapshot{
		OTCProducts:   otcResult.Products,
		IyakuProducts: iyakuResult.Products,
	}, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
