package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	erpchat "github.com/set-night/erpchat"
	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/handler"
	"github.com/set-night/erpchat/internal/middleware"
	"github.com/set-night/erpchat/internal/repository"
	"github.com/set-night/erpchat/internal/service"
)

var serveFlags struct {
	noBot     bool
	noMigrate bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP and WebSocket API, plus the Telegram bot when BOT_TOKEN is set",
	Long: `Runs the HTTP API (/api/chat, /api/chat/{domain}, /api/reviews, /ws/chat,
/healthz, /metrics). When BOT_TOKEN is set the Telegram bot polls in the same
process, and when WATCH_DIR is set new documents there are ingested as they appear.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.BoolVar(&serveFlags.noBot, "no-bot", false, "Do not start the Telegram bot")
	f.BoolVar(&serveFlags.noMigrate, "no-migrate", false, "Skip database migrations at startup")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !serveFlags.noMigrate {
		if err := migrateUp(cfg); err != nil {
			return err
		}
	}
	return run(cmd.Context(), cfg, true, cfg.BotToken != "" && !serveFlags.noBot)
}

// run starts the selected transports and the directory watcher and blocks
// until ctx is cancelled or one of them fails.
func run(ctx context.Context, cfg *config.Config, withHTTP, withBot bool) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	deps := handler.Deps{
		Chat:         a.chat,
		Reviews:      a.reviews,
		Sessions:     a.history,
		Health:       a.pools.Chat,
		Metrics:      a.metrics.Handler(),
		Ingestor:     a.ingestor,
		UploadDir:    cfg.UploadDir,
		ChainEnabled: cfg.ChainEnabled,
	}

	g, gctx := errgroup.WithContext(ctx)

	var h *handler.Handler
	if withBot {
		b, err := newBot(cfg, func() *handler.Handler { return h })
		if err != nil {
			return err
		}
		deps.Bot = b
		h = handler.New(deps)
		h.Register()
		g.Go(func() error {
			slog.Info("starting bot")
			b.Start(gctx)
			slog.Info("bot stopped gracefully")
			return nil
		})
	} else {
		h = handler.New(deps)
	}

	if withHTTP {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           h.Routes(),
			ReadHeaderTimeout: config.ReadHeaderTimeout,
		}
		g.Go(func() error {
			slog.Info("http server listening", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if cfg.WatchDir != "" {
		w := service.NewWatcher(a.ingestor, cfg.WatchDir)
		g.Go(func() error { return w.Run(gctx) })
	}

	return g.Wait()
}

// newBot creates the bot with its middleware chain. Plain messages go to the
// handler returned by current, which is set once the handler exists.
func newBot(cfg *config.Config, current func() *handler.Handler) (*bot.Bot, error) {
	b, err := bot.New(cfg.BotToken,
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(nil),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h := current(); h != nil {
				h.HandleText(ctx, b, update)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return b, nil
}

func migrateUp(cfg *config.Config) error {
	migrationsFS, err := fs.Sub(erpchat.MigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	return repository.RunMigrations(cfg.DatabaseURL, migrationsFS)
}
