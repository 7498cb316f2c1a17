package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/orders-api/internal/config"
	"github.com/Additional-Code/orders-api/internal/database"
	"github.com/Additional-Code/orders-api/internal/logger"
	"github.com/Additional-Code/orders-api/internal/observability"
	repositoryorder "github.com/Additional-Code/orders-api/internal/repository/order"
	httpserver "github.com/Additional-Code/orders-api/internal/server/http"
	serviceorder "github.com/Additional-Code/orders-api/internal/service/order"
	transporthttp "github.com/Additional-Code/orders-api/internal/transport/http"
)

// Storage provides configuration, logging and database connections only.
var Storage = fx.Options(
	config.Module,
	database.Module,
	logger.Module,
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	Storage,
	observability.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Module is the default application wiring.
var Module = HTTP
