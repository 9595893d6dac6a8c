package campaign

import (
	"github.com/leadflowhq/leadflow/internal/campaign/repository"
	"github.com/leadflowhq/leadflow/internal/campaign/service"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
