// Package repository translates local intents into Remote Data Service
// calls. Each operation is exactly one remote round trip; results are
// decoded into entities through an explicit schema so that a malformed
// remote row surfaces as a typed error instead of a silent bad cast.
package repository

import (
	"reflect"
	"time"

	"pinbook/internal/client/remote"
	"pinbook/internal/domain/entity"
	"pinbook/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MalformedRowError reports a remote row that failed schema validation.
type MalformedRowError struct {
	Table string
	Cause error
}

// Error implements the error interface.
func (e *MalformedRowError) Error() string {
	return "repository: malformed row from table " + e.Table + ": " + e.Cause.Error()
}

// Unwrap exposes the underlying decode or validation failure.
func (e *MalformedRowError) Unwrap() error {
	return e.Cause
}

// addressRow is the wire schema of an address row.
type addressRow struct {
	ID          uuid.UUID `mapstructure:"id" validate:"required"`
	UserID      uuid.UUID `mapstructure:"user_id" validate:"required"`
	Title       string    `mapstructure:"title" validate:"required"`
	FullAddress string    `mapstructure:"full_address" validate:"required"`
	Latitude    float64   `mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64   `mapstructure:"longitude" validate:"gte=-180,lte=180"`
	IsFavorite  bool      `mapstructure:"is_favorite"`
	CreatedAt   time.Time `mapstructure:"created_at"`
	UpdatedAt   time.Time `mapstructure:"updated_at"`
}

// profileRow is the wire schema of a profile row.
type profileRow struct {
	ID        uuid.UUID `mapstructure:"id" validate:"required"`
	Email     string    `mapstructure:"email" validate:"required,email"`
	FirstName string    `mapstructure:"first_name"`
	LastName  string    `mapstructure:"last_name"`
	Phone     string    `mapstructure:"phone"`
	CreatedAt time.Time `mapstructure:"created_at"`
	UpdatedAt time.Time `mapstructure:"updated_at"`
}

// decodeRow maps a generic remote row onto the typed schema and validates
// it. The decode hooks accept the string encodings JSON transports use for
// uuids and timestamps.
func decodeRow(table string, row remote.Row, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			stringToUUIDHook,
		),
	})
	if err != nil {
		return errors.Wrap(err, "failed to build row decoder")
	}

	if err := decoder.Decode(map[string]any(row)); err != nil {
		return &MalformedRowError{Table: table, Cause: err}
	}

	if err := validate.Struct(out); err != nil {
		return &MalformedRowError{Table: table, Cause: err}
	}

	return nil
}

func stringToUUIDHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(uuid.UUID{}) {
		return data, nil
	}

	return uuid.Parse(data.(string))
}

func decodeAddress(row remote.Row) (entity.Address, error) {
	var wire addressRow
	if err := decodeRow(remote.TableAddresses, row, &wire); err != nil {
		return entity.Address{}, err
	}

	return entity.Address{
		ID:          wire.ID,
		UserID:      wire.UserID,
		Title:       wire.Title,
		FullAddress: wire.FullAddress,
		Latitude:    wire.Latitude,
		Longitude:   wire.Longitude,
		IsFavorite:  wire.IsFavorite,
		CreatedAt:   wire.CreatedAt,
		UpdatedAt:   wire.UpdatedAt,
	}, nil
}

func decodeAddresses(rows []remote.Row) ([]entity.Address, error) {
	addresses := make([]entity.Address, 0, len(rows))
	for _, row := range rows {
		address, err := decodeAddress(row)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}

	return addresses, nil
}

func decodeProfile(row remote.Row) (entity.User, error) {
	var wire profileRow
	if err := decodeRow(remote.TableProfiles, row, &wire); err != nil {
		return entity.User{}, err
	}

	return entity.User{
		ID:        wire.ID,
		Email:     wire.Email,
		FirstName: wire.FirstName,
		LastName:  wire.LastName,
		Phone:     wire.Phone,
		CreatedAt: wire.CreatedAt,
		UpdatedAt: wire.UpdatedAt,
	}, nil
}
