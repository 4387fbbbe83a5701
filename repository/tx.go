package repository

import "context"

// TxManager runs fn inside one atomic transaction. Repositories called with
// the context handed to fn take part in that transaction; if fn returns an
// error nothing is committed.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Users    UserRepository
	Teams    TeamRepository
	Members  MemberRepository
	Projects ProjectRepository
	Tasks    TaskRepository
	Tx       TxManager
}
