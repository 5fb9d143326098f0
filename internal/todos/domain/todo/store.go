package todo

import "context"

// Store is the task store of record. Every call returns either a result or a
// *StoreFailure describing why it failed.
type Store interface {
	List(ctx context.Context) ([]Todo, error)
	Create(ctx context.Context, t Todo) (Todo, error)
	Update(ctx context.Context, id ID, t Todo) (Todo, error)
	Delete(ctx context.Context, id ID) error
}
