package repository

import (
	"context"
	"log/slog"

	"pinbook/internal/client/notify"
	"pinbook/internal/client/remote"
	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AddressDraft is a complete new address as entered by the user. The id and
// timestamps are server-assigned and therefore absent.
type AddressDraft struct {
	Title       string  `validate:"required,min=3"`
	FullAddress string  `validate:"required,min=10"`
	Latitude    float64 `validate:"gte=-90,lte=90"`
	Longitude   float64 `validate:"gte=-180,lte=180"`
	IsFavorite  bool
}

// AddressPatch is a sparse update: only non-nil fields are sent. A nil field
// means "leave untouched", which is distinct from setting an empty value.
type AddressPatch struct {
	Title       *string
	FullAddress *string
	Latitude    *float64
	Longitude   *float64
	IsFavorite  *bool
}

// AddressRepository wraps the address operations of the Remote Data Service.
// It is stateless: every call is one remote round trip, with results decoded
// into entities and failures classified (see package remote).
type AddressRepository struct {
	svc      remote.DataService
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewAddressRepository creates an AddressRepository.
func NewAddressRepository(svc remote.DataService, notifier notify.Notifier, logger *slog.Logger) *AddressRepository {
	return &AddressRepository{svc: svc, notifier: notifier, logger: logger}
}

// List returns every address of the signed-in user, newest first.
func (r *AddressRepository) List(ctx context.Context) ([]entity.Address, error) {
	rows, err := r.svc.Query(ctx, remote.TableAddresses, nil, createdDescending())
	if err != nil {
		return nil, err
	}

	return decodeAddresses(rows)
}

// ListFavorites returns only the favorite addresses, newest first. This is
// a separate server-side round trip, not a local filter of List.
func (r *AddressRepository) ListFavorites(ctx context.Context) ([]entity.Address, error) {
	rows, err := r.svc.Query(ctx, remote.TableAddresses, remote.Filter{"is_favorite": true}, createdDescending())
	if err != nil {
		return nil, err
	}

	return decodeAddresses(rows)
}

// Insert stores a new address and returns it with server-assigned fields.
// The draft is validated locally before the round trip.
func (r *AddressRepository) Insert(ctx context.Context, draft AddressDraft) (entity.Address, error) {
	if err := validateDraft(draft); err != nil {
		return entity.Address{}, err
	}

	row := remote.Row{
		"title":        draft.Title,
		"full_address": draft.FullAddress,
		"latitude":     draft.Latitude,
		"longitude":    draft.Longitude,
		"is_favorite":  draft.IsFavorite,
	}

	created, err := r.svc.Insert(ctx, remote.TableAddresses, row)
	if err != nil {
		return entity.Address{}, err
	}

	address, err := decodeAddress(created)
	if err != nil {
		return entity.Address{}, err
	}

	r.sendNotification(ctx, "Adres eklendi", address.Title+" adres listenize kaydedildi")

	return address, nil
}

// Update applies the non-nil fields of patch to the address with the given
// id and returns the full updated entity. Fails with remote.ErrNotFound when
// the id does not resolve.
func (r *AddressRepository) Update(ctx context.Context, id uuid.UUID, patch AddressPatch) (entity.Address, error) {
	sparse := remote.Row{}
	if patch.Title != nil {
		sparse["title"] = *patch.Title
	}
	if patch.FullAddress != nil {
		sparse["full_address"] = *patch.FullAddress
	}
	if patch.Latitude != nil {
		sparse["latitude"] = *patch.Latitude
	}
	if patch.Longitude != nil {
		sparse["longitude"] = *patch.Longitude
	}
	if patch.IsFavorite != nil {
		sparse["is_favorite"] = *patch.IsFavorite
	}

	updated, err := r.svc.Update(ctx, remote.TableAddresses, id.String(), sparse)
	if err != nil {
		return entity.Address{}, err
	}

	address, err := decodeAddress(updated)
	if err != nil {
		return entity.Address{}, err
	}

	r.sendNotification(ctx, "Adres güncellendi", address.Title+" adresi güncellendi")

	return address, nil
}

// Remove deletes the address by id. A remote "not found" means the address
// is already gone, which is the desired end state, so it is absorbed.
func (r *AddressRepository) Remove(ctx context.Context, id uuid.UUID) error {
	if err := r.svc.Delete(ctx, remote.TableAddresses, id.String()); err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			r.logger.DebugContext(ctx, "address already deleted", slog.String("address_id", id.String()))

			return nil
		}

		return err
	}

	r.sendNotification(ctx, "Adres silindi", "Adres listenizden kaldırıldı")

	return nil
}

// ToggleFavorite flips the favorite flag of the given address and returns
// the updated entity.
func (r *AddressRepository) ToggleFavorite(ctx context.Context, address entity.Address) (entity.Address, error) {
	flipped := !address.IsFavorite

	updated, err := r.Update(ctx, address.ID, AddressPatch{IsFavorite: &flipped})
	if err != nil {
		return entity.Address{}, err
	}

	return updated, nil
}

// sendNotification fires the user notification side channel. Failures are
// logged and swallowed; they never fail the primary operation.
func (r *AddressRepository) sendNotification(ctx context.Context, title, body string) {
	if err := r.notifier.Notify(ctx, title, body); err != nil {
		r.logger.WarnContext(ctx, "notification failed",
			slog.String("title", title),
			slog.Any("error", err))
	}
}

func createdDescending() remote.Order {
	return remote.Order{Field: "created_at", Descending: true}
}

// validateDraft checks the draft against the address schema and reports
// violations as a field-to-message validation error in market language.
func validateDraft(draft AddressDraft) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	if violations, ok := err.(validator.ValidationErrors); ok {
		for _, violation := range violations {
			switch violation.Field() {
			case "Title":
				fields["title"] = "Başlık en az 3 karakter olmalıdır"
			case "FullAddress":
				fields["full_address"] = "Adres en az 10 karakter olmalıdır"
			case "Latitude":
				fields["latitude"] = "Geçersiz enlem değeri"
			case "Longitude":
				fields["longitude"] = "Geçersiz boylam değeri"
			}
		}
	}

	return &remote.ValidationError{General: "Adres bilgileri geçersiz", Fields: fields}
}
