package bootstrap

import (
	"context"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"gorm.io/gorm"

	"github.com/skyquery/skyquery/cache"
	"github.com/skyquery/skyquery/config"
	"github.com/skyquery/skyquery/log"
	"github.com/skyquery/skyquery/orm"
	"github.com/skyquery/skyquery/plugins/serpapi"
	"github.com/skyquery/skyquery/plugins/status"
	"github.com/skyquery/skyquery/tools"
)

// App holds the initialized components of the application
type App struct {
	Genkit   *genkit.Genkit
	Registry *tools.Registry
	Flights  *serpapi.FlightTools
	History  *gorm.DB
}

// Setup initializes the application components based on the
// configuration. Cache and history are optional: failures there are
// logged and the server runs without them.
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	gk := genkit.Init(ctx)
	registry := tools.NewRegistry()

	client := serpapi.NewClient(serpapi.ClientConfig{
		APIKey:            cfg.SerpAPI.APIKey,
		BaseURL:           cfg.SerpAPI.BaseURL,
		TimeoutSeconds:    cfg.SerpAPI.TimeoutSeconds,
		RequestsPerSecond: cfg.SerpAPI.RequestsPerSecond,
		Burst:             cfg.SerpAPI.Burst,
	})

	var store cache.Cache = cache.NewNoOp()
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword,
			cfg.Cache.RedisDB, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
		if err != nil {
			log.Warnf(ctx, "cache disabled, continuing without it: %v", err)
		} else {
			log.Infof(ctx, "result cache enabled at %s", cfg.Cache.RedisAddr)
			store = redisCache
		}
	}

	var history *gorm.DB
	if cfg.History.Enabled {
		db, err := orm.Open(cfg.History.Path)
		if err != nil {
			log.Warnf(ctx, "search history disabled, continuing without it: %v", err)
		} else {
			log.Infof(ctx, "search history enabled at %s", cfg.History.Path)
			history = db
		}
	}

	flights := serpapi.NewFlightTools(client, store, history, gk, registry)
	status.Register(gk, registry)

	log.Infof(ctx, "registered tools: %v", registry.Names())

	return &App{
		Genkit:   gk,
		Registry: registry,
		Flights:  flights,
		History:  history,
	}, nil
}
