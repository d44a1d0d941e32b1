package repositories

import "context"

// Repository aggregates the per-entity repositories and transaction
// support behind one interface.
type Repository interface {
	Admin() AdminRepository
	Form() FormRepository
	Response() ResponseRepository

	// WithTransaction runs fn against a Repository bound to one database
	// transaction; any error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
