package module

import (
	"github.com/leadflowhq/leadflow/internal/module/repository"
	"github.com/leadflowhq/leadflow/internal/module/service"
	"go.uber.org/fx"
)

var Module = fx.Module("module.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
