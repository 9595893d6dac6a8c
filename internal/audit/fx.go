package audit

import (
	"github.com/leadflowhq/leadflow/internal/audit/repository"
	"github.com/leadflowhq/leadflow/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
