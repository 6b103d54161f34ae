package logger

import "go.uber.org/fx"

// Module provides the service logger built from *config.Config.
var Module = fx.Provide(New)
