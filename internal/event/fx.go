package event

import (
	"github.com/gatherkit/gatherkit/internal/event/repository"
	"github.com/gatherkit/gatherkit/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
