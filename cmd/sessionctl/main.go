package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"peleman-chatbot/catalog"
	"peleman-chatbot/cmd/api/clients/catalogclient"
	"peleman-chatbot/config"
	"peleman-chatbot/db"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/internal/setup"
	"peleman-chatbot/repositories"
	"peleman-chatbot/session"
)

// deps 는 하위 명령이 쓰는 외부 자원이다. 테스트에서 바꿔 끼운다.
type deps struct {
	config    func() config.AppConfig
	openStore func(ctx context.Context, cfg config.AppConfig) (*session.Store, error)
	fetcher   func(cfg config.AppConfig) catalog.Fetcher
	turnLogs  func(ctx context.Context) (turnLogReader, error)
}

func defaultDeps() deps {
	return deps{
		config:    config.GetConfig,
		openStore: setup.SessionStore,
		fetcher: func(cfg config.AppConfig) catalog.Fetcher {
			if cfg.Host.SiteURL == "" && cfg.Host.CatalogAPIURL == "" {
				return nil
			}
			return catalogclient.New(catalogclient.BaseURL(cfg.Host), cfg.Catalog.FetchTimeout)
		},
		turnLogs: func(ctx context.Context) (turnLogReader, error) {
			if err := db.Init(ctx); err != nil {
				return nil, err
			}
			return repositories.NewChatTurnLogRepository(db.Database()), nil
		},
	}
}

func newRootCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sessionctl",
		Short:         "Inspect chat sessions, catalogs and turn logs",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(d.config().Logging.Level)
		},
	}
	cmd.AddCommand(newSessionsCmd(d))
	cmd.AddCommand(newCatalogCmd(d))
	cmd.AddCommand(newTokenCmd(d))
	cmd.AddCommand(newTurnsCmd(d))
	return cmd
}

func main() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}
