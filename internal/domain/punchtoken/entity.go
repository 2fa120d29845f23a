package punchtoken

import "time"

// WireType discriminates attendance-punch QR payloads from unrelated QR
// codes a scanner might read.
const WireType = "presenze/punch"

// PunchToken is a short-lived, single-use kiosk token. It is displayed as
// a QR code by the front desk and consumed by exactly one punch.
type PunchToken struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Used      bool
}

func (t PunchToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// WirePayload is the JSON shape encoded into the QR code.
type WirePayload struct {
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
	Type     string    `json:"type"`
}
