package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/choromap/internal/pipeline"
	"github.com/sells-group/choromap/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rendered map and county data over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyRenderFlags()
		if cfg.Inputs.Dataset == "" || cfg.Inputs.Boundaries == "" {
			return eris.New("both --dataset and --boundaries are required (flags or config)")
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		srv := server.New(cfg, pipeline.New(cfg, st), st)
		if err := srv.Prepare(ctx); err != nil {
			return eris.Wrap(err, "serve: prepare")
		}

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&renderDataset, "dataset", "", "county indicator table (CSV or XLSX)")
	serveCmd.Flags().StringVar(&renderBoundaries, "boundaries", "", "county boundary file (GeoJSON or shapefile)")
	rootCmd.AddCommand(serveCmd)
}
