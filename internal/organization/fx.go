package organization

import (
	"github.com/gatherkit/gatherkit/internal/organization/repository"
	"github.com/gatherkit/gatherkit/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
