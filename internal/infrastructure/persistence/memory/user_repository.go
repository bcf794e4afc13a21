// Package memory implements the account repository on the process-local key store.
package memory

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/fedicore/internal/domain/models"
	"github.com/turtacn/fedicore/internal/domain/repository"
	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository is the key vault: it hands out the single keypair of every username,
// minting it on first access.
type UserRepository struct {
	store     repository.KeyStore
	generator service.KeyGenerator
	metrics   service.Metrics
	log       logger.Logger
	inflight  singleflight.Group
}

// NewUserRepository creates a vault backed by store.
func NewUserRepository(store repository.KeyStore, generator service.KeyGenerator, metrics service.Metrics, log logger.Logger) *UserRepository {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &UserRepository{
		store:     store,
		generator: generator,
		metrics:   metrics,
		log:       log.WithComponent("key_vault"),
	}
}

// GetOrCreate returns the cached user or mints a keypair for username.
// Concurrent first calls for one username share a single generation; distinct usernames
// generate in parallel. The store lock is never held while generating.
func (r *UserRepository) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	if user, found := r.store.Get(username); found {
		r.metrics.RecordKeyLookup(true)
		return user, nil
	}
	r.metrics.RecordKeyLookup(false)

	v, err, _ := r.inflight.Do(username, func() (interface{}, error) {
		// A previous flight may have finished between the lookup above and Do.
		if user, found := r.store.Get(username); found {
			return user, nil
		}
		return r.generate(ctx, username)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

func (r *UserRepository) generate(ctx context.Context, username string) (*models.User, error) {
	start := time.Now()
	publicDER, privateDER, err := r.generator.GenerateKeyPair()
	elapsed := time.Since(start)
	r.metrics.RecordKeyGeneration(err == nil, elapsed)
	if err != nil {
		appErr := errors.ErrKeyGenerationFailed(username, err)
		r.log.Error(ctx, "Failed to generate keypair", appErr, logger.String("username", username))
		return nil, appErr
	}

	actual, loaded := r.store.GetOrInsert(username, &models.User{
		Username:   username,
		PublicKey:  publicDER,
		PrivateKey: privateDER,
	})
	if loaded {
		r.log.Warn(ctx, "Discarded keypair; another writer cached one first", logger.String("username", username))
		return actual, nil
	}

	r.log.Info(ctx, "Generated keypair",
		logger.String("username", username),
		logger.Duration("duration", elapsed),
	)
	return actual, nil
}
