// Package qrcode renders and parses address share QR codes.
package qrcode

import (
	"encoding/json"
	"fmt"

	"pinbook/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	AddressID string `json:"address_id"`
	Type      string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateAddressQR renders a PNG QR code for sharing an address.
func (s *qrcodeService) GenerateAddressQR(addressID uuid.UUID) ([]byte, error) {
	data := QRCodeData{
		AddressID: addressID.String(),
		Type:      "address",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseAddressQR decodes QR payload data back into an address ID.
func (s *qrcodeService) ParseAddressQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != "address" {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	addressID, err := uuid.Parse(data.AddressID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse address ID: %w", err)
	}

	return addressID, nil
}
