package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"pinbook/internal/client/remote"
	"pinbook/internal/client/repository"
	"pinbook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAddressOps is a scriptable AddressOperations for store tests.
type fakeAddressOps struct {
	listFn           func(ctx context.Context) ([]entity.Address, error)
	listFavoritesFn  func(ctx context.Context) ([]entity.Address, error)
	insertFn         func(ctx context.Context, draft repository.AddressDraft) (entity.Address, error)
	updateFn         func(ctx context.Context, id uuid.UUID, patch repository.AddressPatch) (entity.Address, error)
	removeFn         func(ctx context.Context, id uuid.UUID) error
	toggleFavoriteFn func(ctx context.Context, address entity.Address) (entity.Address, error)
}

func (f *fakeAddressOps) List(ctx context.Context) ([]entity.Address, error) {
	return f.listFn(ctx)
}

func (f *fakeAddressOps) ListFavorites(ctx context.Context) ([]entity.Address, error) {
	return f.listFavoritesFn(ctx)
}

func (f *fakeAddressOps) Insert(ctx context.Context, draft repository.AddressDraft) (entity.Address, error) {
	return f.insertFn(ctx, draft)
}

func (f *fakeAddressOps) Update(ctx context.Context, id uuid.UUID, patch repository.AddressPatch) (entity.Address, error) {
	return f.updateFn(ctx, id, patch)
}

func (f *fakeAddressOps) Remove(ctx context.Context, id uuid.UUID) error {
	return f.removeFn(ctx, id)
}

func (f *fakeAddressOps) ToggleFavorite(ctx context.Context, address entity.Address) (entity.Address, error) {
	return f.toggleFavoriteFn(ctx, address)
}

func newAddress(title string, favorite bool) entity.Address {
	now := time.Now().UTC()

	return entity.Address{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Title:       title,
		FullAddress: "Moda Caddesi No:1, Kadıköy, İstanbul",
		Latitude:    41.0,
		Longitude:   29.0,
		IsFavorite:  favorite,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// favoritesConsistent checks that an entity is in the favorites subview
// exactly when it is in the full collection with the favorite flag set.
func favoritesConsistent(t *testing.T, s *AddressStore) {
	t.Helper()

	favorites := map[uuid.UUID]bool{}
	for _, fav := range s.Favorites() {
		assert.True(t, fav.IsFavorite, "favorites subview holds a non-favorite entity")
		favorites[fav.ID] = true
	}

	for _, addr := range s.Addresses() {
		assert.Equal(t, addr.IsFavorite, favorites[addr.ID],
			"favorites membership disagrees with the flag for %s", addr.Title)
	}
}

func TestFetchReplacesCollectionWholesale(t *testing.T) {
	first := []entity.Address{newAddress("Ev", false), newAddress("İş", true)}
	second := []entity.Address{newAddress("Okul", false)}
	calls := 0

	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) {
			calls++
			if calls == 1 {
				return first, nil
			}

			return second, nil
		},
	}
	s := NewAddressStore(ops, slog.Default())

	assert.Equal(t, StatusIdle, s.Status())
	s.Fetch(context.Background())
	assert.Equal(t, StatusSucceeded, s.Status())
	assert.Len(t, s.Addresses(), 2)

	s.Fetch(context.Background())
	assert.Len(t, s.Addresses(), 1)
	assert.Equal(t, "Okul", s.Addresses()[0].Title)
}

func TestFailedFetchLeavesCollectionUntouched(t *testing.T) {
	existing := []entity.Address{newAddress("Ev", false)}
	calls := 0

	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) {
			calls++
			if calls == 1 {
				return existing, nil
			}

			return nil, remote.ErrRemoteUnavailable
		},
	}
	s := NewAddressStore(ops, slog.Default())

	s.Fetch(context.Background())
	require.Equal(t, StatusSucceeded, s.Status())

	s.Fetch(context.Background())

	assert.Equal(t, StatusFailed, s.Status())
	assert.Equal(t, "Adresler yüklenirken bir hata oluştu", s.Err())
	assert.Len(t, s.Addresses(), 1, "failed fetch must not mutate the collection")
}

func TestFetchFavoritesIndependentOfFetch(t *testing.T) {
	favorite := newAddress("İş", true)

	ops := &fakeAddressOps{
		listFavoritesFn: func(_ context.Context) ([]entity.Address, error) {
			return []entity.Address{favorite}, nil
		},
	}
	s := NewAddressStore(ops, slog.Default())

	s.FetchFavorites(context.Background())

	assert.Equal(t, StatusIdle, s.Status(), "favorites fetch must not touch the full collection status")
	assert.Equal(t, StatusSucceeded, s.FavoritesStatus())
	assert.Empty(t, s.Addresses())
	assert.Len(t, s.Favorites(), 1)
}

func TestInsertAppendsAndKeepsFavoritesWhenNotFlagged(t *testing.T) {
	created := newAddress("Ev", false)

	ops := &fakeAddressOps{
		listFn:          func(_ context.Context) ([]entity.Address, error) { return nil, nil },
		listFavoritesFn: func(_ context.Context) ([]entity.Address, error) { return nil, nil },
		insertFn: func(_ context.Context, _ repository.AddressDraft) (entity.Address, error) {
			return created, nil
		},
	}
	s := NewAddressStore(ops, slog.Default())
	s.Fetch(context.Background())
	s.FetchFavorites(context.Background())

	_, err := s.Add(context.Background(), repository.AddressDraft{})

	require.NoError(t, err)
	assert.Len(t, s.Addresses(), 1)
	assert.Empty(t, s.Favorites(), "non-favorite insert must not touch the favorites subview")
	favoritesConsistent(t, s)
}

func TestInsertFavoriteAppearsInBothViews(t *testing.T) {
	created := newAddress("İş", true)

	ops := &fakeAddressOps{
		insertFn: func(_ context.Context, _ repository.AddressDraft) (entity.Address, error) {
			return created, nil
		},
	}
	s := NewAddressStore(ops, slog.Default())

	_, err := s.Add(context.Background(), repository.AddressDraft{})

	require.NoError(t, err)
	assert.Len(t, s.Addresses(), 1)
	assert.Len(t, s.Favorites(), 1)
	favoritesConsistent(t, s)
}

func TestFailedInsertLeavesStateUntouched(t *testing.T) {
	ops := &fakeAddressOps{
		insertFn: func(_ context.Context, _ repository.AddressDraft) (entity.Address, error) {
			return entity.Address{}, remote.ErrRemoteUnavailable
		},
	}
	s := NewAddressStore(ops, slog.Default())

	_, err := s.Add(context.Background(), repository.AddressDraft{})

	assert.Error(t, err)
	assert.Empty(t, s.Addresses())
	assert.Empty(t, s.Favorites())
}

func TestToggleReconcilesFavorites(t *testing.T) {
	address := newAddress("Ev", false)

	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) {
			return []entity.Address{address}, nil
		},
		listFavoritesFn: func(_ context.Context) ([]entity.Address, error) { return nil, nil },
		toggleFavoriteFn: func(_ context.Context, current entity.Address) (entity.Address, error) {
			current.IsFavorite = !current.IsFavorite

			return current, nil
		},
	}
	s := NewAddressStore(ops, slog.Default())
	s.Fetch(context.Background())
	s.FetchFavorites(context.Background())

	// Toggle on: appears in favorites, updated in place in the full view.
	updated, err := s.ToggleFavorite(context.Background(), address)
	require.NoError(t, err)
	assert.True(t, updated.IsFavorite)
	assert.Len(t, s.Addresses(), 1)
	require.Len(t, s.Favorites(), 1)
	assert.Equal(t, address.ID, s.Favorites()[0].ID)
	favoritesConsistent(t, s)

	// Toggle off: removed from favorites again.
	_, err = s.ToggleFavorite(context.Background(), updated)
	require.NoError(t, err)
	assert.Empty(t, s.Favorites())
	favoritesConsistent(t, s)
}

func TestUpdateReconciliationIsIdempotent(t *testing.T) {
	address := newAddress("Ev", false)
	payload := address
	payload.IsFavorite = true
	payload.Title = "Ev (Güncel)"

	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) {
			return []entity.Address{address}, nil
		},
		updateFn: func(_ context.Context, _ uuid.UUID, _ repository.AddressPatch) (entity.Address, error) {
			return payload, nil
		},
	}
	s := NewAddressStore(ops, slog.Default())
	s.Fetch(context.Background())

	_, err := s.Update(context.Background(), address.ID, repository.AddressPatch{})
	require.NoError(t, err)
	once := struct {
		addresses []entity.Address
		favorites []entity.Address
	}{s.Addresses(), s.Favorites()}

	_, err = s.Update(context.Background(), address.ID, repository.AddressPatch{})
	require.NoError(t, err)

	assert.Equal(t, once.addresses, s.Addresses())
	assert.Equal(t, once.favorites, s.Favorites())
	assert.Len(t, s.Favorites(), 1)
}

func TestRemoveIsDefensiveAgainstStaleFlag(t *testing.T) {
	// The cached copy claims not-favorite, but the entity is present in the
	// favorites subview; delete must remove it from both regardless.
	stale := newAddress("Ev", false)
	inFavorites := stale
	inFavorites.IsFavorite = true

	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) {
			return []entity.Address{stale}, nil
		},
		listFavoritesFn: func(_ context.Context) ([]entity.Address, error) {
			return []entity.Address{inFavorites}, nil
		},
		removeFn: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
	s := NewAddressStore(ops, slog.Default())
	s.Fetch(context.Background())
	s.FetchFavorites(context.Background())

	err := s.Remove(context.Background(), stale.ID)

	require.NoError(t, err)
	assert.Empty(t, s.Addresses())
	assert.Empty(t, s.Favorites())
}

func TestFailedRemoveLeavesStateUntouched(t *testing.T) {
	address := newAddress("Ev", true)

	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) {
			return []entity.Address{address}, nil
		},
		removeFn: func(_ context.Context, _ uuid.UUID) error {
			return remote.ErrRemoteUnavailable
		},
	}
	s := NewAddressStore(ops, slog.Default())
	s.Fetch(context.Background())

	err := s.Remove(context.Background(), address.ID)

	assert.Error(t, err)
	assert.Len(t, s.Addresses(), 1)
}

func TestSubscribeSignalsOnTransitions(t *testing.T) {
	ops := &fakeAddressOps{
		listFn: func(_ context.Context) ([]entity.Address, error) { return nil, nil },
	}
	s := NewAddressStore(ops, slog.Default())

	signals := 0
	cancel := s.Subscribe(func() { signals++ })

	s.Fetch(context.Background())
	// Loading and succeeded are separate transitions.
	assert.Equal(t, 2, signals)

	cancel()
	s.Fetch(context.Background())
	assert.Equal(t, 2, signals, "cancelled subscriber must not be signalled")
}

// The lifecycle below mirrors how the map and favorites screens drive the
// store: insert a non-favorite, toggle it on, then delete it.
func TestAddressLifecycleAcrossBothViews(t *testing.T) {
	home := newAddress("Home", false)
	home.Latitude = 41.0
	home.Longitude = 29.0

	ops := &fakeAddressOps{
		listFn:          func(_ context.Context) ([]entity.Address, error) { return nil, nil },
		listFavoritesFn: func(_ context.Context) ([]entity.Address, error) { return nil, nil },
		insertFn: func(_ context.Context, _ repository.AddressDraft) (entity.Address, error) {
			return home, nil
		},
		toggleFavoriteFn: func(_ context.Context, current entity.Address) (entity.Address, error) {
			current.IsFavorite = !current.IsFavorite

			return current, nil
		},
		removeFn: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
	s := NewAddressStore(ops, slog.Default())
	s.Fetch(context.Background())
	s.FetchFavorites(context.Background())

	// Insert: full +1, favorites unchanged.
	created, err := s.Add(context.Background(), repository.AddressDraft{
		Title:       "Home",
		FullAddress: "Moda Caddesi No:1, Kadıköy, İstanbul",
		Latitude:    41.0,
		Longitude:   29.0,
	})
	require.NoError(t, err)
	assert.Len(t, s.Addresses(), 1)
	assert.Empty(t, s.Favorites())

	// Toggle on: updated in place, favorites +1 with that id.
	toggled, err := s.ToggleFavorite(context.Background(), created)
	require.NoError(t, err)
	assert.Len(t, s.Addresses(), 1)
	assert.True(t, s.Addresses()[0].IsFavorite)
	require.Len(t, s.Favorites(), 1)
	assert.Equal(t, created.ID, s.Favorites()[0].ID)

	// Delete: both views -1.
	require.NoError(t, s.Remove(context.Background(), toggled.ID))
	assert.Empty(t, s.Addresses())
	assert.Empty(t, s.Favorites())
}
