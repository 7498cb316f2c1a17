package order

import "go.uber.org/fx"

// Module provides the bun-backed order repository to Fx as a Repository.
var Module = fx.Provide(
	fx.Annotate(NewRepository, fx.As(new(Repository))),
)
