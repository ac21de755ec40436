package testinternals

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"

	"github.com/2beens/fitdash/internal/auth"
)

const TestJWTSecret = "test-jwt-secret"

type Internals struct {
	TokenService *auth.TokenService

	// redis
	RedisClient *redis.Client
	RedisMock   redismock.ClientMock
}

func NewTestingInternals() *Internals {
	redisClient, redisMock := redismock.NewClientMock()
	return &Internals{
		TokenService: auth.NewTokenService(TestJWTSecret, time.Hour),
		RedisClient:  redisClient,
		RedisMock:    redisMock,
	}
}

// ValidToken issues a token accepted by TokenService.
func (i *Internals) ValidToken() string {
	token, err := i.TokenService.Issue()
	if err != nil {
		panic(err)
	}
	return token
}
