package order

import (
	"go.uber.org/fx"
)

// Module wires the order endpoints onto the shared Echo router.
var Module = fx.Module("http_orders",
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
