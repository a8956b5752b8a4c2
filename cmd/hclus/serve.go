package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/drakos74/h-clus/infra/config"
	"github.com/drakos74/h-clus/internal/metrics"
	"github.com/drakos74/h-clus/internal/server"
	"github.com/drakos74/h-clus/internal/session"
	badgerstore "github.com/drakos74/h-clus/internal/storage/badger"
	"github.com/drakos74/h-clus/internal/storage/file"
	"github.com/drakos74/h-clus/internal/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	seed map[string]string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Starts the clustering server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().StringToStringVar(&seed, "import", nil, "tables to import before serving, as name=file.csv")
	rootCmd.AddCommand(serveCmd)
}

func openTables(s config.Storage) (*badger.DB, error) {
	if s.InMemory {
		return badgerstore.Open(badgerstore.InMemoryConfig())
	}
	return badgerstore.Open(badgerstore.DefaultConfig(s.TablesPath))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openTables(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()

	tables := table.NewStore(db)
	for name, path := range seed {
		if err := importCSV(ctx, tables, name, path); err != nil {
			return err
		}
	}

	handler := session.NewHandler(tables, file.NewStorage(cfg.Storage.DendrogramDir), metrics.Observer, log.Logger)
	srv := server.NewServer("hclus", cfg.Server.Addr, handler)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if cfg.Server.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.Server.MetricsAddr)
		})
	}
	err = g.Wait()
	log.Info().Err(err).Msg("server stopped")
	return err
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("could not stop metrics server")
		}
	}()
	log.Info().Str("addr", addr).Msg("metrics server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}
