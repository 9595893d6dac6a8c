package organization

import (
	"github.com/leadflowhq/leadflow/internal/organization/repository"
	"github.com/leadflowhq/leadflow/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
