package service

import (
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(
		NewValidator,
		NewPasswordHasher,
		NewCredential,
		NewCatalog,
		NewFavorites,
	)
)
