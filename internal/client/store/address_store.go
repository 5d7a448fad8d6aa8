package store

import (
	"context"
	"log/slog"
	"sync"

	"pinbook/internal/client/repository"
	"pinbook/internal/domain/entity"

	"github.com/google/uuid"
)

// Turkish fallback messages recorded on fetch failures.
const (
	msgAddressesFetchFailed = "Adresler yüklenirken bir hata oluştu"
	msgFavoritesFetchFailed = "Favori adresler yüklenirken bir hata oluştu"
)

// AddressOperations is the slice of the address repository the store drives.
type AddressOperations interface {
	List(ctx context.Context) ([]entity.Address, error)
	ListFavorites(ctx context.Context) ([]entity.Address, error)
	Insert(ctx context.Context, draft repository.AddressDraft) (entity.Address, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.AddressPatch) (entity.Address, error)
	Remove(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, address entity.Address) (entity.Address, error)
}

// AddressStore caches the full address collection and the favorites subview.
// The two views are fetched independently and reconciled on every mutation;
// the store never derives one from the other.
//
// There is no cross-call locking: when two mutations race on the same id,
// transitions apply in completion order and the last completed write wins.
// The mutex below only guards memory, not ordering.
type AddressStore struct {
	repo   AddressOperations
	logger *slog.Logger

	mu                  sync.Mutex
	addresses           []entity.Address
	favorites           []entity.Address
	status              Status
	favoritesStatus     Status
	errMessage          string
	favoritesErrMessage string
	listeners           map[int]func()
	nextListenerID      int
}

// NewAddressStore creates an AddressStore in the idle state.
func NewAddressStore(repo AddressOperations, logger *slog.Logger) *AddressStore {
	return &AddressStore{
		repo:      repo,
		logger:    logger,
		listeners: make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change and returns a
// cancel function. This is the hook the view binding layer renders from.
func (s *AddressStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Fetch replaces the full collection wholesale from the remote store.
// On failure the collection is left untouched and the error recorded.
func (s *AddressStore) Fetch(ctx context.Context) {
	s.transition(func() {
		s.status = StatusLoading
		s.errMessage = ""
	})

	addresses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "address fetch failed", slog.Any("error", err))
		s.transition(func() {
			s.status = StatusFailed
			s.errMessage = msgAddressesFetchFailed
		})

		return
	}

	s.transition(func() {
		s.status = StatusSucceeded
		s.addresses = addresses
	})
}

// FetchFavorites replaces the favorites subview wholesale from the remote
// store. Independent of Fetch: neither call refreshes the other view.
func (s *AddressStore) FetchFavorites(ctx context.Context) {
	s.transition(func() {
		s.favoritesStatus = StatusLoading
		s.favoritesErrMessage = ""
	})

	favorites, err := s.repo.ListFavorites(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "favorites fetch failed", slog.Any("error", err))
		s.transition(func() {
			s.favoritesStatus = StatusFailed
			s.favoritesErrMessage = msgFavoritesFetchFailed
		})

		return
	}

	s.transition(func() {
		s.favoritesStatus = StatusSucceeded
		s.favorites = favorites
	})
}

// Add inserts a new address. On success the entity is appended to the full
// collection, and to favorites when flagged. On failure the error propagates
// and no collection changes.
func (s *AddressStore) Add(ctx context.Context, draft repository.AddressDraft) (entity.Address, error) {
	created, err := s.repo.Insert(ctx, draft)
	if err != nil {
		return entity.Address{}, err
	}

	s.transition(func() {
		s.addresses = append(s.addresses, created)
		if created.IsFavorite {
			s.favorites = append(s.favorites, created)
		}
	})

	return created, nil
}

// Update applies a sparse patch. On success the updated entity replaces its
// copy in the full collection and the favorites subview is reconciled.
func (s *AddressStore) Update(ctx context.Context, id uuid.UUID, patch repository.AddressPatch) (entity.Address, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return entity.Address{}, err
	}

	s.transition(func() {
		s.applyUpdated(updated)
	})

	return updated, nil
}

// ToggleFavorite flips the favorite flag of the given address and reconciles
// both views with the result.
func (s *AddressStore) ToggleFavorite(ctx context.Context, address entity.Address) (entity.Address, error) {
	updated, err := s.repo.ToggleFavorite(ctx, address)
	if err != nil {
		return entity.Address{}, err
	}

	s.transition(func() {
		s.applyUpdated(updated)
	})

	return updated, nil
}

// Remove deletes an address. On success the id is removed from both views
// regardless of its last-known favorite flag; the cached flag may be stale.
func (s *AddressStore) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}

	s.transition(func() {
		s.addresses = removeByID(s.addresses, id)
		s.favorites = removeByID(s.favorites, id)
	})

	return nil
}

// Addresses returns a copy of the full collection.
func (s *AddressStore) Addresses() []entity.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entity.Address(nil), s.addresses...)
}

// Favorites returns a copy of the favorites subview.
func (s *AddressStore) Favorites() []entity.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entity.Address(nil), s.favorites...)
}

// Status returns the fetch status of the full collection.
func (s *AddressStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// FavoritesStatus returns the fetch status of the favorites subview.
func (s *AddressStore) FavoritesStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.favoritesStatus
}

// Err returns the recorded message of the last failed full-collection fetch.
func (s *AddressStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errMessage
}

// FavoritesErr returns the recorded message of the last failed favorites fetch.
func (s *AddressStore) FavoritesErr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.favoritesErrMessage
}

// applyUpdated replaces the entity in the full collection when present and
// reconciles the favorites subview. The reconciliation is idempotent:
// applying the same payload twice is a no-op the second time.
// Callers hold the mutex.
func (s *AddressStore) applyUpdated(updated entity.Address) {
	for i := range s.addresses {
		if s.addresses[i].ID == updated.ID {
			s.addresses[i] = updated

			break
		}
	}

	inFavorites := containsID(s.favorites, updated.ID)
	switch {
	case updated.IsFavorite && !inFavorites:
		s.favorites = append(s.favorites, updated)
	case updated.IsFavorite && inFavorites:
		for i := range s.favorites {
			if s.favorites[i].ID == updated.ID {
				s.favorites[i] = updated

				break
			}
		}
	case !updated.IsFavorite && inFavorites:
		s.favorites = removeByID(s.favorites, updated.ID)
	}
}

// transition runs a state change under the mutex and then signals listeners.
func (s *AddressStore) transition(apply func()) {
	s.mu.Lock()
	apply()
	observers := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func containsID(addresses []entity.Address, id uuid.UUID) bool {
	for i := range addresses {
		if addresses[i].ID == id {
			return true
		}
	}

	return false
}

func removeByID(addresses []entity.Address, id uuid.UUID) []entity.Address {
	kept := addresses[:0]
	for i := range addresses {
		if addresses[i].ID != id {
			kept = append(kept, addresses[i])
		}
	}

	return kept
}
