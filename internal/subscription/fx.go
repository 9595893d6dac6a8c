package subscription

import (
	"github.com/leadflowhq/leadflow/internal/subscription/repository"
	"github.com/leadflowhq/leadflow/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
