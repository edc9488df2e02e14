package audit

import (
	"github.com/gatherkit/gatherkit/internal/audit/repository"
	"github.com/gatherkit/gatherkit/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
