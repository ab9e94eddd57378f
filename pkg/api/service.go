package api

import (
	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/core"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/registry"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/runtime"
)

func NewAPI(db database.Database, qu queue.Queue, reg *registry.Registry, rt runtime.Driver, bc events.Broadcaster, opts *core.Options) (API, error) {
	return core.NewService(db, qu, reg, rt, bc, opts)
}
