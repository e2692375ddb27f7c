package di

import (
	"go.uber.org/zap"

	"alnretool/application/commands/bus"
	"alnretool/application/ports"
	querybus "alnretool/application/queries/bus"
	"alnretool/application/services"
	"alnretool/domain/cluster"
	"alnretool/infrastructure/config"
	"alnretool/infrastructure/persistence/badgerstore"
	"alnretool/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	EntitySource ports.EntitySource
	GraphCache   ports.Cache
	GraphService *services.GraphService
	StateStore   *badgerstore.Store
	ClusterState *cluster.StateMachine
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Metrics      *observability.Metrics
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.StateStore != nil {
		return c.StateStore.Close()
	}
	return nil
}
