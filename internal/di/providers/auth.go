package providers

import (
	"github.com/samber/do/v2"

	"github.com/storekeeperapp/storekeeper-server/internal/auth"
	"github.com/storekeeperapp/storekeeper-server/internal/config"
	"github.com/storekeeperapp/storekeeper-server/internal/validation"
)

// ProvideTokenService provides the JWT token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return auth.NewTokenService(
		cfg.Auth.Secret,
		cfg.Auth.AccessTokenDuration,
		cfg.Auth.RefreshTokenDuration,
	)
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
