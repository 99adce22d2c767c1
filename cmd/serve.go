package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hashjamm/portfolio/internal/analytics"
	"github.com/hashjamm/portfolio/internal/content"
	"github.com/hashjamm/portfolio/internal/logging"
	"github.com/hashjamm/portfolio/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `serve loads the bundled content, opens the page-view database when
analytics is enabled and serves the site until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if servePort != "" {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := content.Default()
	if err != nil {
		return err
	}
	profile, err := content.DefaultProfile()
	if err != nil {
		return err
	}
	log.Info("content loaded", zap.Int("projects", store.Len()), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := server.Options{
		Config:  cfg,
		Store:   store,
		Profile: profile,
		Logger:  log,
	}

	var tracker *analytics.Tracker
	if cfg.AnalyticsEnabled {
		db, err := analytics.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		tracker = analytics.NewTracker(db, log, 256)
		go tracker.Run(ctx)
		go analytics.RunCleanup(ctx, db, log, cfg.Retention(), 24*time.Hour)

		opts.Analytics = db
		opts.Tracker = tracker
		log.Info("analytics enabled", zap.String("database", cfg.DatabasePath), zap.Int("retention_days", cfg.RetentionDays))
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}

	err = srv.Run(ctx)
	if !shutdownTracker(stop, tracker, 5*time.Second) {
		log.Warn("page view queue did not drain before exit")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

// shutdownTracker cancels the serve context, which also covers a server that
// failed to start, and waits up to timeout for queued views to be written.
func shutdownTracker(stop context.CancelFunc, tracker *analytics.Tracker, timeout time.Duration) bool {
	stop()
	if tracker == nil {
		return true
	}
	select {
	case <-tracker.Done():
		return true
	case <-time.After(timeout):
		return false
	}
}
