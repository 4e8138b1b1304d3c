package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradesim/api"
	"github.com/rustyeddy/tradesim/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Long: `Start the JSON API.

Endpoints:
  POST /api/session  - simulate one session
  POST /api/batch    - run a batch
  POST /api/sweep    - optimize the amount risked
  GET  /health       - liveness

Runs are recorded to the configured journal unless --no-journal is set.

Example:
  tradesim serve --addr :8080 -f simulation.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New()
	defer func() { _ = log.Sync() }()

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	srv := api.NewServer(serveAddr, j, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.String("addr", serveAddr))
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
