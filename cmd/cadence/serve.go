package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prospectbd/cadence/internal/api"
	"github.com/prospectbd/cadence/internal/config"
	"github.com/prospectbd/cadence/internal/journal"
	"github.com/prospectbd/cadence/internal/metrics"
	"github.com/prospectbd/cadence/internal/sdlc"
	"github.com/prospectbd/cadence/internal/team"
	"github.com/prospectbd/cadence/internal/timer"
	"github.com/prospectbd/cadence/internal/user"
	"github.com/spf13/cobra"
)

var seedOnServe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Cadence server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnServe, "seed", false, "load demo data into the store on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := sdlc.NewStore()
	teamStore := team.NewStore()
	userStore := user.NewStore()
	tracker := timer.New(cfg.Timer.IdleThreshold, cfg.Timer.ReportMinSeconds)

	collector := journal.NewCollector(journal.NewSlogSink(), cfg.Journal.BatchSize, cfg.Journal.FlushInterval)
	go collector.Start(ctx)

	m := metrics.New()
	m.RegisterStateCollector(func() metrics.StateStats {
		st := store.Stats()
		return metrics.StateStats{
			Projects:      st.Projects,
			Modules:       st.Modules,
			UserStories:   st.UserStories,
			Tasks:         st.Tasks,
			Sprints:       st.Sprints,
			Teams:         teamStore.Count(),
			Users:         userStore.Count(),
			ActiveTimers:  tracker.ActiveCount(),
			JournalBuffer: collector.BufferLen(),
		}
	})

	if seedOnServe {
		if err := loadDemoData(store, teamStore, userStore); err != nil {
			return err
		}
		slog.Info("demo data loaded")
	}

	router := api.NewRouter(api.RouterDeps{
		Store:          store,
		Teams:          teamStore,
		Users:          userStore,
		Tracker:        tracker,
		Journal:        collector,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}
