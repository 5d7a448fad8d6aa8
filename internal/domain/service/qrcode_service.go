package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for address share QR codes.
// A generated code encodes a deep link that opens the address on the
// receiving device's map screen.
type QRCodeService interface {
	// GenerateAddressQR renders a PNG QR code for sharing an address.
	GenerateAddressQR(addressID uuid.UUID) ([]byte, error)

	// ParseAddressQR decodes QR payload data back into an address ID.
	ParseAddressQR(qrData string) (uuid.UUID, error)
}
