package catalog

import (
	"github.com/leadflowhq/leadflow/internal/catalog/repository"
	"github.com/leadflowhq/leadflow/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
