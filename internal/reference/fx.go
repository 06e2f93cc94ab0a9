package reference

import (
	"github.com/smallbiznis/orderdesk/internal/reference/repository"
	"github.com/smallbiznis/orderdesk/internal/reference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reference",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
