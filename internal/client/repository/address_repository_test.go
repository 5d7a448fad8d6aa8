package repository

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"pinbook/internal/client/notify"
	"pinbook/internal/client/remote"
	"pinbook/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddressRepo(svc remote.DataService) *AddressRepository {
	return NewAddressRepository(svc, notify.NewNoopNotifier(), slog.Default())
}

func addressRowFixture(id, userID uuid.UUID, favorite bool) remote.Row {
	return remote.Row{
		"id":           id.String(),
		"user_id":      userID.String(),
		"title":        "Ev",
		"full_address": "Moda Caddesi No:1, Kadıköy, İstanbul",
		"latitude":     41.0,
		"longitude":    29.0,
		"is_favorite":  favorite,
		"created_at":   time.Now().UTC().Format(time.RFC3339),
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
	}
}

func TestAddressRepositoryList(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	svc := &fakeDataService{
		queryFn: func(_ context.Context, table string, filter remote.Filter, order remote.Order) ([]remote.Row, error) {
			assert.Equal(t, remote.TableAddresses, table)
			assert.Nil(t, filter)
			assert.Equal(t, remote.Order{Field: "created_at", Descending: true}, order)

			return []remote.Row{addressRowFixture(id, userID, false)}, nil
		},
	}

	addresses, err := newAddressRepo(svc).List(context.Background())

	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, id, addresses[0].ID)
	assert.Equal(t, "Ev", addresses[0].Title)
}

func TestAddressRepositoryListFavoritesFilter(t *testing.T) {
	svc := &fakeDataService{
		queryFn: func(_ context.Context, _ string, filter remote.Filter, _ remote.Order) ([]remote.Row, error) {
			assert.Equal(t, remote.Filter{"is_favorite": true}, filter)

			return nil, nil
		},
	}

	addresses, err := newAddressRepo(svc).ListFavorites(context.Background())

	require.NoError(t, err)
	assert.Empty(t, addresses)
}

func TestAddressRepositoryListMalformedRow(t *testing.T) {
	svc := &fakeDataService{
		queryFn: func(_ context.Context, _ string, _ remote.Filter, _ remote.Order) ([]remote.Row, error) {
			return []remote.Row{{"id": "not-a-uuid", "title": "Ev"}}, nil
		},
	}

	_, err := newAddressRepo(svc).List(context.Background())

	var malformed *MalformedRowError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, remote.TableAddresses, malformed.Table)
}

func TestAddressRepositoryInsertOmitsServerFields(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	svc := &fakeDataService{
		insertFn: func(_ context.Context, _ string, row remote.Row) (remote.Row, error) {
			assert.NotContains(t, row, "id")
			assert.NotContains(t, row, "created_at")
			assert.NotContains(t, row, "updated_at")

			return addressRowFixture(id, userID, false), nil
		},
	}

	draft := AddressDraft{
		Title:       "Evim",
		FullAddress: "Moda Caddesi No:1, Kadıköy, İstanbul",
		Latitude:    41.0,
		Longitude:   29.0,
	}

	address, err := newAddressRepo(svc).Insert(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, id, address.ID)
}

func TestAddressRepositoryInsertRejectsInvalidDraft(t *testing.T) {
	svc := &fakeDataService{
		insertFn: func(_ context.Context, _ string, _ remote.Row) (remote.Row, error) {
			t.Fatal("remote insert must not be called for an invalid draft")

			return nil, nil
		},
	}

	draft := AddressDraft{Title: "Ev", FullAddress: "kısa", Latitude: 200, Longitude: 29}

	_, err := newAddressRepo(svc).Insert(context.Background(), draft)

	violation, ok := remote.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, violation.Fields, "title")
	assert.Contains(t, violation.Fields, "full_address")
	assert.Contains(t, violation.Fields, "latitude")
}

func TestAddressRepositoryUpdateSendsOnlyPresentFields(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	title := "Yeni Başlık"

	svc := &fakeDataService{
		updateFn: func(_ context.Context, _ string, gotID string, sparse remote.Row) (remote.Row, error) {
			assert.Equal(t, id.String(), gotID)
			assert.Equal(t, remote.Row{"title": title}, sparse)

			row := addressRowFixture(id, userID, false)
			row["title"] = title

			return row, nil
		},
	}

	address, err := newAddressRepo(svc).Update(context.Background(), id, AddressPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, title, address.Title)
}

func TestAddressRepositoryRemoveAbsorbsNotFound(t *testing.T) {
	svc := &fakeDataService{
		deleteFn: func(_ context.Context, _ string, _ string) error {
			return remote.ErrNotFound
		},
	}

	err := newAddressRepo(svc).Remove(context.Background(), uuid.New())

	assert.NoError(t, err)
}

func TestAddressRepositoryRemovePropagatesOtherFailures(t *testing.T) {
	svc := &fakeDataService{
		deleteFn: func(_ context.Context, _ string, _ string) error {
			return remote.ErrRemoteUnavailable
		},
	}

	err := newAddressRepo(svc).Remove(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, remote.ErrRemoteUnavailable))
}

func TestAddressRepositoryToggleFavorite(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	svc := &fakeDataService{
		updateFn: func(_ context.Context, _ string, _ string, sparse remote.Row) (remote.Row, error) {
			assert.Equal(t, remote.Row{"is_favorite": true}, sparse)

			return addressRowFixture(id, userID, true), nil
		},
	}

	repo := newAddressRepo(svc)
	current, err := decodeAddress(addressRowFixture(id, userID, false))
	require.NoError(t, err)

	updated, err := repo.ToggleFavorite(context.Background(), current)

	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)
}
