package repository

import (
	"context"

	"pinbook/internal/client/remote"
	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"
)

// ProfilePatch is a sparse profile update: only non-nil fields are sent.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// AccountRepository wraps authentication and profile operations of the
// Remote Data Service.
type AccountRepository struct {
	svc remote.DataService
}

// NewAccountRepository creates an AccountRepository.
func NewAccountRepository(svc remote.DataService) *AccountRepository {
	return &AccountRepository{svc: svc}
}

// SignIn opens a session with the given credentials.
func (r *AccountRepository) SignIn(ctx context.Context, email, password string) (*remote.AuthSession, error) {
	return r.svc.Authenticate(ctx, email, password)
}

// SignUp registers a new account and opens a session for it.
func (r *AccountRepository) SignUp(ctx context.Context, input remote.RegisterInput) (*remote.AuthSession, error) {
	return r.svc.Register(ctx, input)
}

// SignOut terminates the current session.
func (r *AccountRepository) SignOut(ctx context.Context) error {
	return r.svc.SignOut(ctx)
}

// CurrentProfile fetches the signed-in user's profile projection.
func (r *AccountRepository) CurrentProfile(ctx context.Context) (entity.User, error) {
	rows, err := r.svc.Query(ctx, remote.TableProfiles, nil, remote.Order{})
	if err != nil {
		return entity.User{}, err
	}
	if len(rows) == 0 {
		return entity.User{}, errors.Wrap(remote.ErrNotFound, "profile row missing")
	}

	return decodeProfile(rows[0])
}

// UpdateProfile applies the non-nil fields of patch to the signed-in user's
// profile and returns the updated projection.
func (r *AccountRepository) UpdateProfile(ctx context.Context, patch ProfilePatch) (entity.User, error) {
	sparse := remote.Row{}
	if patch.FirstName != nil {
		sparse["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		sparse["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		sparse["phone"] = *patch.Phone
	}

	row, err := r.svc.Update(ctx, remote.TableProfiles, "", sparse)
	if err != nil {
		return entity.User{}, err
	}

	return decodeProfile(row)
}

// ChangePassword replaces the signed-in user's password after the remote
// service verifies the current one.
func (r *AccountRepository) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return r.svc.UpdatePassword(ctx, currentPassword, newPassword)
}
