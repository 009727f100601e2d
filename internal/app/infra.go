package app

import (
	"context"

	"registry-auth/internal/config"
	"registry-auth/internal/logger"
	"registry-auth/internal/redis"
	"registry-auth/internal/session"
)

type Infra struct {
	Redis       *redis.Client           // nil when not configured
	Revocations session.RevocationStore // nil when redis is absent
}

// setupInfra wires the optional pieces. The service runs fully
// stateless without redis; logout then only clears the cookie.
func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {

	infra := &Infra{}

	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, token revocation disabled", nil)
		return infra, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	infra.Redis = redisClient
	infra.Revocations = session.NewRedisRevocationStore(redisClient.Client)

	return infra, nil
}
