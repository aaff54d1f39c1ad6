package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/erp/mws-connector/internal/domain/amazon"
)

// DefaultWizardKeyPrefix namespaces wizard sessions in Redis
const DefaultWizardKeyPrefix = "mws:wizard:"

// RedisWizardStore implements WizardStore using Redis.
// Sessions are stored as JSON and expire with their TTL, so several API
// instances can serve the same wizard.
type RedisWizardStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisWizardStore connects to Redis and creates a wizard store
func NewRedisWizardStore(cfg RedisConfig, keyPrefix string) (*RedisWizardStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWizardStoreWithClient(client, keyPrefix), nil
}

// NewRedisWizardStoreWithClient creates a store with an existing Redis client
func NewRedisWizardStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisWizardStore {
	if keyPrefix == "" {
		keyPrefix = DefaultWizardKeyPrefix
	}
	return &RedisWizardStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisWizardStore) key(id uuid.UUID) string {
	return s.keyPrefix + id.String()
}

// Save stores the session, replacing any previous version and resetting its TTL
func (s *RedisWizardStore) Save(ctx context.Context, session *amazon.WizardSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

// Get loads a session. Expired and unknown sessions return ErrWizardSessionNotFound.
func (s *RedisWizardStore) Get(ctx context.Context, id uuid.UUID) (*amazon.WizardSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, amazon.ErrWizardSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}

	var session amazon.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *RedisWizardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisWizardStore) Close() error {
	return s.client.Close()
}

var _ amazon.WizardStore = (*RedisWizardStore)(nil)
