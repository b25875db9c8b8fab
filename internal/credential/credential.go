// Package credential defines the login factors exchanged with the identity
// endpoint and cached for biometric replay. The JSON field names and the
// LogDate format are part of the wire contract and must not change.
package credential

import (
	"encoding/json"
	"fmt"
	"time"
)

// LogDateLayout is the calendar-date stamp carried in every login request.
// Time of day is deliberately absent.
const LogDateLayout = "2006-01-02"

type Credential struct {
	Name    string `json:"Name"`
	Pass    string `json:"Pass"`
	LogDate string `json:"LogDate"`
}

// New captures the login factors together with the date stamp of the attempt.
func New(identifier, secret string, now time.Time) Credential {
	return Credential{
		Name:    identifier,
		Pass:    secret,
		LogDate: now.Format(LogDateLayout),
	}
}

// EncodeBody renders the credential as the login request body. The same bytes
// are what the credential store persists, so identifier, secret and date stamp
// round-trip without re-derivation.
func (c Credential) EncodeBody() ([]byte, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding credential body: %w", err)
	}

	return body, nil
}

// DecodeBody parses a previously persisted request body back into a credential.
func DecodeBody(body []byte) (Credential, error) {
	var c Credential
	if err := json.Unmarshal(body, &c); err != nil {
		return Credential{}, fmt.Errorf("decoding credential body: %w", err)
	}

	return c, nil
}
