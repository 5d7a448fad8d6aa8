package repository

import (
	"context"
	"testing"
	"time"

	"pinbook/internal/client/remote"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileRowFixture(id uuid.UUID) remote.Row {
	return remote.Row{
		"id":         id.String(),
		"email":      "ayse@example.com",
		"first_name": "Ayşe",
		"last_name":  "Yılmaz",
		"phone":      "+905551112233",
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
}

func TestAccountRepositoryCurrentProfile(t *testing.T) {
	id := uuid.New()

	svc := &fakeDataService{
		queryFn: func(_ context.Context, table string, _ remote.Filter, _ remote.Order) ([]remote.Row, error) {
			assert.Equal(t, remote.TableProfiles, table)

			return []remote.Row{profileRowFixture(id)}, nil
		},
	}

	user, err := NewAccountRepository(svc).CurrentProfile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Ayşe", user.FirstName)
}

func TestAccountRepositoryCurrentProfileMissingRow(t *testing.T) {
	svc := &fakeDataService{
		queryFn: func(_ context.Context, _ string, _ remote.Filter, _ remote.Order) ([]remote.Row, error) {
			return nil, nil
		},
	}

	_, err := NewAccountRepository(svc).CurrentProfile(context.Background())

	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestAccountRepositoryUpdateProfileSparse(t *testing.T) {
	id := uuid.New()
	phone := "+905559998877"

	svc := &fakeDataService{
		updateFn: func(_ context.Context, table string, _ string, sparse remote.Row) (remote.Row, error) {
			assert.Equal(t, remote.TableProfiles, table)
			assert.Equal(t, remote.Row{"phone": phone}, sparse)

			row := profileRowFixture(id)
			row["phone"] = phone

			return row, nil
		},
	}

	user, err := NewAccountRepository(svc).UpdateProfile(context.Background(), ProfilePatch{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)
}

func TestSessionRepositoryFetchActive(t *testing.T) {
	userID := uuid.New()
	created := time.Now().Add(-10 * time.Minute)

	svc := &fakeDataService{
		currentSessionFn: func(_ context.Context) (*remote.AuthSession, error) {
			return &remote.AuthSession{
				AccessToken: "token-ref",
				UserID:      userID,
				CreatedAt:   created,
				ExpiresAt:   created.Add(time.Hour),
			}, nil
		},
	}

	sessions, err := NewSessionRepository(svc, "iPhone 15 Pro").FetchActive(context.Background())

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsCurrent)
	assert.Equal(t, "iPhone 15 Pro", sessions[0].DeviceInfo)
	assert.Equal(t, "10 dakika önce", sessions[0].LastActivity)
}

func TestSessionRepositoryFetchActiveSignedOut(t *testing.T) {
	svc := &fakeDataService{
		currentSessionFn: func(_ context.Context) (*remote.AuthSession, error) {
			return nil, remote.ErrNoSession
		},
	}

	_, err := NewSessionRepository(svc, "iPhone 15 Pro").FetchActive(context.Background())

	assert.ErrorIs(t, err, remote.ErrNoSession)
}
