package contracts

import "context"

// Worker is a long-running background job owned by a service, such as a
// sweeper loop or a message consumer. Run blocks until the context is
// cancelled or the worker fails; Close releases its resources.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
	Close() error
}
