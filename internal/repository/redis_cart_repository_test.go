package repository_test

import (
	"testing"
	"time"

	"github.com/nikolayk812/sessioncart/internal/port"
	"github.com/nikolayk812/sessioncart/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type redisCartRepositorySuite struct {
	suite.Suite

	container testcontainers.Container
	client    *redis.Client
	repo      port.CartRepository
}

func TestRedisCartRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("redis container tests are skipped in short mode")
	}

	suite.Run(t, new(redisCartRepositorySuite))
}

func (suite *redisCartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error
	suite.container, suite.client, err = startRedis(ctx)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewRedisCart(suite.client, 0)
	suite.Require().NoError(err)
}

func (suite *redisCartRepositorySuite) TearDownSuite() {
	if suite.client != nil {
		suite.NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.NoError(testcontainers.TerminateContainer(suite.container))
	}
}

func (suite *redisCartRepositorySuite) TestFindBySessionID() {
	defer suite.flushAll()
	runFindBySessionIDCases(suite.T(), suite.repo)
}

func (suite *redisCartRepositorySuite) TestSave() {
	defer suite.flushAll()
	runSaveCases(suite.T(), suite.repo)
}

func (suite *redisCartRepositorySuite) TestSaveClearedCart() {
	defer suite.flushAll()
	runSaveClearedCartCase(suite.T(), suite.repo)
}

func (suite *redisCartRepositorySuite) TestSaveAppliesTTL() {
	defer suite.flushAll()

	t := suite.T()
	ctx := t.Context()

	repo, err := repository.NewRedisCart(suite.client, time.Hour)
	require.NoError(t, err)

	cart := randomCart(1)
	require.NoError(t, repo.Save(ctx, cart))

	ttl, err := suite.client.TTL(ctx, "cart:session:"+cart.SessionID()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func (suite *redisCartRepositorySuite) TestFindCorruptedDocument() {
	defer suite.flushAll()

	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.client.Set(ctx, "cart:session:broken", "{not json", 0).Err())

	_, err := suite.repo.FindBySessionID(ctx, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Unmarshal")
}

func (suite *redisCartRepositorySuite) flushAll() {
	suite.NoError(suite.client.FlushAll(suite.T().Context()).Err())
}

func TestNewRedisCart(t *testing.T) {
	_, err := repository.NewRedisCart(nil, 0)
	require.EqualError(t, err, "redis client is nil")

	_, err = repository.NewRedisCart(redis.NewClient(&redis.Options{}), -time.Second)
	require.EqualError(t, err, "ttl[-1s] is negative")
}
