package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/asset"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/asset/gcsstore"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/config"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/export"
	mw "github.com/chemcanvas/chemcanvas/backend-go/internal/middleware"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition/provider"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/render"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	render.SetLogger(slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, err := newModel(ctx, cfg)
	if err != nil {
		slog.Error("create recognition model", "error", err, "provider", cfg.RecognitionProvider)
		os.Exit(1)
	}
	service := recognition.NewService(model, cfg.RecognitionTimeout)

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		slog.Error("create snapshot store", "error", err, "backend", cfg.SnapshotBackend)
		os.Exit(1)
	}
	defer closeStore()

	hub := stream.NewHub(service, cfg.OriginPatterns())
	go hub.Run()

	recognitionHandler := recognition.NewHandler(service)
	assetHandler := asset.NewHandler(store)
	exportHandler := export.NewHandler(cfg.RenderWidth, cfg.RenderHeight)

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", recognitionHandler.Analyze).Methods("POST", "OPTIONS")
	api.HandleFunc("/convert", recognitionHandler.Convert).Methods("POST", "OPTIONS")
	api.HandleFunc("/render", exportHandler.Render).Methods("POST", "OPTIONS")

	r.HandleFunc("/snapshots", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/snapshots/{id}", assetHandler.Serve).Methods("GET")

	r.Handle("/ws/recognize", hub)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Close websocket sessions first so in-flight recognition stops.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "provider", cfg.RecognitionProvider, "snapshots", cfg.SnapshotBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newModel(ctx context.Context, cfg *config.Config) (recognition.Model, error) {
	switch cfg.RecognitionProvider {
	case "openai":
		return provider.NewLangChainModel(provider.LangChainConfig{
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
		})
	default:
		return provider.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (asset.Store, func(), error) {
	if cfg.SnapshotBackend == "gcs" {
		s, err := gcsstore.New(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	s, err := asset.NewDirStore(cfg.SnapshotDir)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}
