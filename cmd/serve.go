package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/softskill/apps/go-server/internal/bank"
	"github.com/robalobadob/softskill/apps/go-server/internal/config"
	"github.com/robalobadob/softskill/apps/go-server/internal/httpserver"
	"github.com/robalobadob/softskill/apps/go-server/internal/pipeline"
	"github.com/robalobadob/softskill/apps/go-server/internal/records"
	"github.com/robalobadob/softskill/apps/go-server/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Persistent on root, so a bare invocation serves with them too.
	rootCmd.PersistentFlags().IntP("port", "p", 0, "listen port (default from PORT or 5175)")
	rootCmd.PersistentFlags().String("quiz-bank-file", "", "YAML question bank (default: embedded)")

	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("quiz-bank-file", rootCmd.PersistentFlags().Lookup("quiz-bank-file"))
}

// openRecords opens the configured database and applies pending migrations.
func openRecords(ctx context.Context, cfg *config.Config) (*records.DB, error) {
	db, err := records.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bank.Init(cfg.QuizBankFile); err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}
	db, err := openRecords(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	st := records.NewStore(db)
	sessions := store.NewMemoryStore()
	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Records:  st,
		Sessions: sessions,
		Pipeline: pipeline.New(st,
			pipeline.WithAssessments(st),
			pipeline.WithCandidates(st),
			pipeline.WithReports(st),
			pipeline.WithTimeout(cfg.RecordTimeout),
		),
		Bank: bank.Current(),
	})
	go janitor(ctx, sessions, cfg.SessionTTL)

	errc := make(chan error, 1)
	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() { errc <- srv.Start(addr) }()
	log.Info().Str("addr", addr).Str("db", string(db.Dialect)).Str("version", version).Msg("starting go-server")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// janitor closes sessions older than ttl until ctx ends.
func janitor(ctx context.Context, sessions store.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(min(ttl, time.Minute))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := sessions.Sweep(now.Add(-ttl)); n > 0 {
				log.Info().Int("closed", n).Msg("expired sessions swept")
			}
		}
	}
}
