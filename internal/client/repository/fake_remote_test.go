package repository

import (
	"context"

	"pinbook/internal/client/remote"
)

// fakeDataService is a scriptable remote.DataService for tests.
type fakeDataService struct {
	authenticateFn   func(ctx context.Context, email, password string) (*remote.AuthSession, error)
	registerFn       func(ctx context.Context, input remote.RegisterInput) (*remote.AuthSession, error)
	signOutFn        func(ctx context.Context) error
	currentSessionFn func(ctx context.Context) (*remote.AuthSession, error)
	queryFn          func(ctx context.Context, table string, filter remote.Filter, order remote.Order) ([]remote.Row, error)
	insertFn         func(ctx context.Context, table string, row remote.Row) (remote.Row, error)
	updateFn         func(ctx context.Context, table string, id string, sparse remote.Row) (remote.Row, error)
	deleteFn         func(ctx context.Context, table string, id string) error
	updatePasswordFn func(ctx context.Context, currentPassword, newPassword string) error
}

func (f *fakeDataService) Authenticate(ctx context.Context, email, password string) (*remote.AuthSession, error) {
	return f.authenticateFn(ctx, email, password)
}

func (f *fakeDataService) Register(ctx context.Context, input remote.RegisterInput) (*remote.AuthSession, error) {
	return f.registerFn(ctx, input)
}

func (f *fakeDataService) SignOut(ctx context.Context) error {
	return f.signOutFn(ctx)
}

func (f *fakeDataService) CurrentSession(ctx context.Context) (*remote.AuthSession, error) {
	return f.currentSessionFn(ctx)
}

func (f *fakeDataService) Query(ctx context.Context, table string, filter remote.Filter, order remote.Order) ([]remote.Row, error) {
	return f.queryFn(ctx, table, filter, order)
}

func (f *fakeDataService) Insert(ctx context.Context, table string, row remote.Row) (remote.Row, error) {
	return f.insertFn(ctx, table, row)
}

func (f *fakeDataService) Update(ctx context.Context, table string, id string, sparse remote.Row) (remote.Row, error) {
	return f.updateFn(ctx, table, id, sparse)
}

func (f *fakeDataService) Delete(ctx context.Context, table string, id string) error {
	return f.deleteFn(ctx, table, id)
}

func (f *fakeDataService) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	return f.updatePasswordFn(ctx, currentPassword, newPassword)
}
