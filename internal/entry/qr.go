package entry

import (
	"encoding/json"
	"strings"
)

// QRPayload is the JSON a student's identity QR code encodes.
type QRPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Email      string `json:"email"`
	Timestamp  string `json:"timestamp"`
}

// ParseQRPayload decodes a scanned QR payload. The roll number is the only
// field the entry flow relies on; its absence makes the payload malformed.
func ParseQRPayload(data string) (QRPayload, error) {
	var p QRPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return QRPayload{}, ErrMalformedQR
	}
	p.RollNumber = strings.TrimSpace(p.RollNumber)
	if p.RollNumber == "" {
		return QRPayload{}, ErrMalformedQR
	}
	return p, nil
}
