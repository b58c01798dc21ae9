// Package draft handles draft persistence for in-progress registrations:
// the JSON wire codec shared by the local store and the remote API, and
// the SQLite-backed local draft store.
package draft

import (
	"encoding/json"
	"fmt"
	"time"

	"regwiz/internal/registration"
)

// Envelope is the wire payload sent as the multipart "data" field and
// stored by the local draft channel. Dates flatten to RFC 3339 strings via
// encoding/json; the receipt binary never appears here (it is a separate
// multipart part on the wire and is dropped by local storage).
type Envelope struct {
	registration.FormData
	SubmittedAt time.Time `json:"submittedAt"`
}

// Encode serializes form state into the wire payload. isDraft
// distinguishes a saved-in-progress record from a finalized submission.
func Encode(f registration.FormData, isDraft bool, submittedAt time.Time) ([]byte, error) {
	f.IsDraft = isDraft
	env := Envelope{FormData: f, SubmittedAt: submittedAt}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding registration payload: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode. Every load path runs the same
// normalization: date fields come back as time values (encoding/json
// reconstructs time.Time from the RFC 3339 strings) and absent nested
// collections default to empty so downstream code never dereferences nil.
func Decode(data []byte) (registration.FormData, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return registration.FormData{}, fmt.Errorf("decoding registration payload: %w", err)
	}
	f := env.FormData
	f.Normalize()
	return f, nil
}
