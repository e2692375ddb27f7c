package di

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alnretool/application/commands"
	"alnretool/application/commands/bus"
	commands_handlers "alnretool/application/commands/handlers"
	"alnretool/application/ports"
	"alnretool/application/queries"
	querybus "alnretool/application/queries/bus"
	queries_handlers "alnretool/application/queries/handlers"
	"alnretool/application/services"
	"alnretool/domain/cluster"
	"alnretool/infrastructure/config"
	"alnretool/infrastructure/notion"
	"alnretool/infrastructure/persistence/badgerstore"
	"alnretool/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideNotionClient creates the upstream API client
func ProvideNotionClient(cfg *config.Config, logger *zap.Logger) *notion.Client {
	return notion.NewClient(cfg.NotionAPIKey, logger)
}

// ProvideEntitySource creates the Notion-backed entity source
func ProvideEntitySource(client *notion.Client, cfg *config.Config, logger *zap.Logger) ports.EntitySource {
	return notion.NewSource(client, notion.DatabaseIDs{
		Characters: cfg.CharactersDatabaseID,
		Elements:   cfg.ElementsDatabaseID,
		Puzzles:    cfg.PuzzlesDatabaseID,
		Timeline:   cfg.TimelineDatabaseID,
	}, logger)
}

// ProvideStateStore opens the embedded store backing cluster
// expand/collapse state
func ProvideStateStore(cfg *config.Config, logger *zap.Logger) (*badgerstore.Store, error) {
	return badgerstore.Open(cfg.StateStorePath, logger)
}

// ProvideStateMachine restores the cluster state machine from the store
func ProvideStateMachine(store *badgerstore.Store) *cluster.StateMachine {
	return cluster.NewStateMachine(store)
}

// ProvideGraphCache creates the in-memory graph cache
func ProvideGraphCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideMetrics creates the Prometheus metrics instance
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	return observability.NewMetrics(fmt.Sprintf("alnretool_%s", cfg.Environment))
}

// ProvideGraphService creates the fetch-synthesize-build pipeline service
func ProvideGraphService(source ports.EntitySource, cache ports.Cache, cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) *services.GraphService {
	return services.NewGraphService(source, cache, cfg.GraphCacheTTL, metrics, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(state *cluster.StateMachine, logger *zap.Logger) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	// All four cluster commands share one handler; the switch inside it
	// routes by concrete type.
	stateHandler := commands_handlers.NewClusterStateHandler(state, logger)
	for _, cmd := range []bus.Command{
		commands.ToggleClusterCommand{},
		commands.ExpandAllClustersCommand{},
		commands.CollapseAllClustersCommand{},
		commands.SelectNodeCommand{},
	} {
		if err := commandBus.Register(cmd, stateHandler); err != nil {
			logger.Fatal("Failed to register command handler", zap.Error(err))
		}
	}

	return commandBus
}

// busMetrics adapts the Prometheus metrics to the query bus Metrics
// interface, which names its own Timer type.
type busMetrics struct {
	m *observability.Metrics
}

func (b busMetrics) Increment(metric, label string) {
	b.m.Increment(metric, label)
}

func (b busMetrics) StartTimer(metric, label string) querybus.Timer {
	return b.m.StartTimer(metric, label)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	graphs *services.GraphService,
	source ports.EntitySource,
	state *cluster.StateMachine,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	instrument := querybus.NewMetricsMiddleware(busMetrics{metrics})

	register := func(q querybus.Query, h querybus.QueryHandler) {
		if err := queryBus.Register(q, instrument.Wrap(h)); err != nil {
			logger.Fatal("Failed to register query handler", zap.Error(err))
		}
	}

	register(queries.GetGraphQuery{}, queries_handlers.NewGetGraphHandler(graphs, logger))
	register(queries.GetClustersQuery{}, queries_handlers.NewGetClustersHandler(graphs, state, logger))
	register(queries.ListEntitiesQuery{}, queries_handlers.NewListEntitiesHandler(source, logger))

	return queryBus
}
