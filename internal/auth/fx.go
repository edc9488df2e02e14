package auth

import (
	"github.com/gatherkit/gatherkit/internal/auth/repository"
	"github.com/gatherkit/gatherkit/internal/auth/service"
	"github.com/gatherkit/gatherkit/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
