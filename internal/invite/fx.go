package invite

import (
	"github.com/gatherkit/gatherkit/internal/invite/repository"
	"github.com/gatherkit/gatherkit/internal/invite/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invite.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
