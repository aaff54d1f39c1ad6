package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/infrastructure/config"
)

// WizardStoreFactory creates wizard stores based on configuration
type WizardStoreFactory struct {
	redisConfig           config.RedisConfig
	keyPrefix             string
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WizardStoreFactoryOption is a functional option for configuring the factory
type WizardStoreFactoryOption func(*WizardStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) WizardStoreFactoryOption {
	return func(f *WizardStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) WizardStoreFactoryOption {
	return func(f *WizardStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewWizardStoreFactory creates a new factory
func NewWizardStoreFactory(redisCfg config.RedisConfig, keyPrefix string, opts ...WizardStoreFactoryOption) *WizardStoreFactory {
	f := &WizardStoreFactory{
		redisConfig:           redisCfg,
		keyPrefix:             keyPrefix,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based wizard store
func (f *WizardStoreFactory) CreateRedisStore() (*RedisWizardStore, error) {
	store, err := NewRedisWizardStore(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis wizard store: %w", err)
	}
	return store, nil
}

// CreateStore returns a Redis store when Redis is enabled and reachable.
// Otherwise it falls back to memory if the factory allows it.
func (f *WizardStoreFactory) CreateStore() (amazon.WizardStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory wizard store")
		return NewInMemoryWizardStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("Using Redis wizard store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for wizard sessions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory wizard store. "+
		"Wizard sessions will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryWizardStore(), nil
}
