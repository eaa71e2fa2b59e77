package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wxllspace/wxllspace-backend/config"
	"github.com/wxllspace/wxllspace-backend/internal/auth"
	"github.com/wxllspace/wxllspace-backend/internal/auth/repository"
)

// NewIdentityProvider builds the provider selected by AUTH_PROVIDER. Both
// providers record sign-outs in Redis.
func NewIdentityProvider(ctx context.Context, cfg *config.Config, db *sql.DB, rdb redis.UniversalClient) (auth.Provider, error) {
	revoker := auth.NewRedisRevoker(rdb)

	switch cfg.Auth.Provider {
	case config.AuthProviderLocal:
		return auth.NewLocalProvider(
			repository.NewIdentityRepository(db),
			revoker,
			cfg.Auth.JWTSecret,
			cfg.Auth.JWTIssuer,
			cfg.Auth.TokenTTL,
		), nil
	case config.AuthProviderFirebase:
		admin, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		signIn, err := auth.NewPasswordSignIn(ctx, cfg.Firebase.APIKey)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseProvider(admin, signIn, revoker), nil
	}
	return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
}
