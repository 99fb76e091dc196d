package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/callorder-agent/internal/adapters/http"
	"github.com/PabloGalante/callorder-agent/internal/adapters/llm"
	"github.com/PabloGalante/callorder-agent/internal/adapters/storage"
	memstore "github.com/PabloGalante/callorder-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/callorder-agent/internal/app/call"
	"github.com/PabloGalante/callorder-agent/internal/app/extract"
	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/app/prompt"
	"github.com/PabloGalante/callorder-agent/internal/app/stage"
	"github.com/PabloGalante/callorder-agent/internal/config"
	"github.com/PabloGalante/callorder-agent/internal/menu"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.Logger().Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := observability.Setup(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openMenu(ctx, cfg)
	if err != nil {
		log.Error("error loading menu", "error", err)
		os.Exit(1)
	}
	if w, ok := src.(*menu.Watcher); ok {
		defer w.Stop()
	}

	responder, err := llm.New(ctx, cfg)
	if err != nil {
		log.Error("error initializing responder", "responder", cfg.Responder, "error", err)
		os.Exit(1)
	}
	log.Info("responder ready", "responder", cfg.Responder, "model", cfg.ModelName)

	backend, err := storage.Open(ctx, cfg, src)
	if err != nil {
		log.Error("error initializing storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	classifier, err := stage.New(cfg.StageStrategy)
	if err != nil {
		log.Error("error initializing stage classifier", "error", err)
		os.Exit(1)
	}

	sessions := memstore.NewSessionStore()
	callSvc := call.NewService(call.Deps{
		Sessions:   sessions,
		Responder:  responder,
		Classifier: classifier,
		Builder:    prompt.NewBuilder(src, cfg.EndMarker, cfg.HistoryWindow, cfg.DigestCap),
		Extractor:  extract.New(cfg.EndMarker, src),
		Menu:       src,
		Sink:       backend.Sink,
	}, call.Options{
		Marker:     cfg.EndMarker,
		Timeout:    cfg.ResponderTimeout,
		SweepEvery: cfg.SweepEvery,
		MaxTurns:   cfg.MaxTurns,
		SessionTTL: cfg.SessionTTL,
	})

	handler := httpadapter.NewServer(httpadapter.Deps{
		Calls:    callSvc,
		Orders:   orders.NewService(backend.Lister),
		Sessions: sessions,
		Menu:     src,
		Records:  backend.Clearer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("callorder API listening", "port", cfg.Port, "restaurant", src.Catalog().Info.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	log.Info("callorder API stopped")
}

// openMenu loads the catalog from cfg.MenuPath, watching it for edits when
// asked to, or falls back to the built-in one.
func openMenu(ctx context.Context, cfg *config.Config) (menu.Source, error) {
	if cfg.MenuPath == "" {
		return menu.NewStatic(menu.Default()), nil
	}
	if !cfg.MenuWatch {
		c, err := menu.Load(cfg.MenuPath)
		if err != nil {
			return nil, err
		}
		return menu.NewStatic(c), nil
	}

	w, err := menu.NewWatcher(cfg.MenuPath)
	if err != nil {
		return nil, err
	}
	w.OnReload(func(c *menu.Catalog) {
		observability.LoggerFromContext(ctx).Info("menu reloaded", "path", cfg.MenuPath, "categories", len(c.Categories))
	})
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
