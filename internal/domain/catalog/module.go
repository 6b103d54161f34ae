package catalog

import "go.uber.org/fx"

// Module provides the fixed reference tables.
var Module = fx.Provide(
	DefaultConversionTable,
	DefaultRedemptionCatalog,
)
