package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"peleman-chatbot/catalog"
	"peleman-chatbot/cmd/api/auth"
	"peleman-chatbot/cmd/api/clients/catalogclient"
	"peleman-chatbot/cmd/api/router"
	"peleman-chatbot/cmd/api/services"
	"peleman-chatbot/config"
	"peleman-chatbot/conversation"
	"peleman-chatbot/internal/ids"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/internal/setup"
	"peleman-chatbot/llm"
	"peleman-chatbot/synchronizer"
)

// @title           Peleman Chatbot API
// @version         1.0
// @description     쇼핑 도우미 위젯의 세션, 대화, 추천 카드 API
// @BasePath        /api/v1
func main() {
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.NodeID > 0 {
		if err := ids.SetNodeID(cfg.Server.NodeID); err != nil {
			logger.Log.Errorf("message id node init failed: %v", err)
			os.Exit(1)
		}
	}

	store, err := setup.SessionStore(ctx, cfg)
	if err != nil {
		logger.Log.Errorf("session store init failed: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	var fetcher catalog.Fetcher
	if strings.TrimSpace(cfg.Host.SiteURL) != "" || strings.TrimSpace(cfg.Host.CatalogAPIURL) != "" {
		fetcher = catalogclient.New(catalogclient.BaseURL(cfg.Host), cfg.Catalog.FetchTimeout)
	}
	catalogs, err := setup.CatalogLoader(cfg, fetcher)
	if err != nil {
		logger.Log.Errorf("catalog init failed: %v", err)
		os.Exit(1)
	}
	go reloadCatalogOnHangup(ctx, catalogs)

	model, err := llm.NewClient(ctx, llm.Config{
		APIKey:            cfg.Secrets.GeminiAPIKey,
		Backend:           cfg.LLM.Backend,
		Project:           cfg.LLM.Project,
		Location:          cfg.LLM.Location,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		MaxPromptProducts: cfg.LLM.MaxPromptProducts,
	})
	if err != nil {
		logger.Log.Errorf("model client init failed: %v", err)
		os.Exit(1)
	}

	observer, closeObserver, err := setup.Observer(ctx, cfg, "peleman-chatbot-api")
	if err != nil {
		logger.Log.Errorf("event publisher init failed: %v", err)
		os.Exit(1)
	}
	defer closeObserver()

	registry := synchronizer.NewRegistry(store)
	controller := conversation.New(model, catalogs, observer, conversation.Options{
		HistoryLimit: cfg.LLM.HistoryCap(),
		SiteURL:      cfg.Host.SiteURL,
	})

	r := router.New(router.Deps{
		Server:   cfg.Server,
		Chat:     services.NewChatService(registry, controller, catalogs),
		Registry: registry,
		Verifier: auth.NewHostTokenVerifier(cfg.Secrets.HostTokenSecret),
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{
			"addr":      cfg.Server.Addr,
			"host_mode": cfg.Host.Enabled,
			"model":     model.ModelName(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("api server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warnf("api server shutdown: %v", err)
	}
	registry.Flush(shutdownCtx)
	logger.Log.Info("api server stopped")
}

// reloadCatalogOnHangup 은 SIGHUP 을 받을 때마다 캐시된 호스트 카탈로그를 비운다.
func reloadCatalogOnHangup(ctx context.Context, catalogs *catalog.Loader) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			catalogs.Invalidate()
			logger.Log.Info("catalog cache invalidated")
		}
	}
}
