package order

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/orderdesk/internal/order/repository"
	"github.com/smallbiznis/orderdesk/internal/order/service"
)

var Module = fx.Module("order",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
