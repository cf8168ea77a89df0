package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"sync"

	"github.com/dmitrijs2005/librarium/internal/client/api"
	"github.com/dmitrijs2005/librarium/internal/client/cache"
	"github.com/dmitrijs2005/librarium/internal/client/config"
	"github.com/dmitrijs2005/librarium/internal/client/services"
	"github.com/dmitrijs2005/librarium/internal/client/session"
	"github.com/dmitrijs2005/librarium/internal/client/store"
)

type App struct {
	config  *config.Config
	service *services.CatalogService
	reader  *bufio.Reader

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	repos, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewGraphQLClient(c.ServerURL)
	sess := session.NewManager(repos.Metadata)
	service := services.NewCatalogService(apiClient, cache.NewStore(), sess, c.ReconnectInterval)

	if err := service.Start(ctx); err != nil {
		return nil, err
	}

	return &App{config: c, service: service, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.service.Authenticated()
}

func (a *App) getStatus() string {
	s := ""
	if username := a.service.Username(); username != "" {
		s = "(" + username + ") "
	}
	return s
}

func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to Librarium CLI (type 'help' for commands)")

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)

	_ = a.Unwatch(ctx)
}
