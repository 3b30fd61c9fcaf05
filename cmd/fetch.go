package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/choromap/internal/fetcher"
)

var fetchDataDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch <url> [url...]",
	Short: "Download remote dataset or boundary files into the data directory",
	Long:  "Downloads each URL over HTTP(S) or FTP into the local data directory, skipping files that are already present. Prints the local path of each file.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dataDir := fetchDataDir
		if dataDir == "" {
			dataDir = cfg.Fetch.DataDir
		}

		timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
		cache := fetcher.NewCache(dataDir,
			fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
				UserAgent:  cfg.Fetch.UserAgent,
				Timeout:    timeout,
				MaxRetries: cfg.Fetch.MaxRetries,
				RatePerSec: cfg.Fetch.RatePerSec,
			}),
			fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: timeout}),
		)

		for _, rawURL := range args {
			path, err := cache.Fetch(ctx, rawURL)
			if err != nil {
				return eris.Wrapf(err, "fetch %s", rawURL)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}

		zap.L().Info("fetch complete", zap.Int("files", len(args)))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDataDir, "data-dir", "", "download directory (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
