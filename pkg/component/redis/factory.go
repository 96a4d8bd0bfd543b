package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/component/storage"
	options "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/redis"
)

// Factory implements the storage.Factory interface for creating Redis
// clients. It encapsulates the client creation logic, enabling dependency
// injection and simplified testing.
type Factory struct {
	opts *options.Options
}

var _ storage.Factory = (*Factory)(nil)

// NewFactory creates a new Redis client factory with the provided options.
func NewFactory(opts *options.Options) *Factory {
	return &Factory{
		opts: opts,
	}
}

// Create creates and initializes a new Redis client. The context bounds
// the connection establishment. Implements storage.Factory.
func (f *Factory) Create(ctx context.Context) (storage.Client, error) {
	if f.opts == nil {
		return nil, errors.New("redis options cannot be nil")
	}

	client, err := NewWithContext(ctx, f.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return client, nil
}

// Options returns the Redis options used by this factory.
func (f *Factory) Options() *options.Options {
	return f.opts
}
