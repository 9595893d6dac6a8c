package lead

import (
	"github.com/leadflowhq/leadflow/internal/lead/repository"
	"github.com/leadflowhq/leadflow/internal/lead/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lead.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
