package repository

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/BenjiKandl/apertif/internal/domain"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 8
	// maxIDAttempts bounds the retries after an id collision
	maxIDAttempts = 5
	maxIDLength   = 128
)

var idAlphabetSize = big.NewInt(int64(len(idAlphabet)))

// NewEventID returns a random 8 character base36 token
func NewEventID() (string, error) {
	var b strings.Builder
	b.Grow(idLength)
	for i := 0; i < idLength; i++ {
		n, err := rand.Int(rand.Reader, idAlphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// ValidateEventID rejects ids that cannot have been issued by any backend.
// Remote backends hand out their own ids, so only the character set and
// length are checked.
func ValidateEventID(id string) error {
	if id == "" || len(id) > maxIDLength {
		return domain.NewValidationError(domain.ErrInvalidEventID)
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return domain.NewValidationError(domain.ErrInvalidEventID)
		}
	}
	return nil
}

// allocateID retries insert with fresh ids until it reports no collision
func allocateID(op string, insert func(id string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := NewEventID()
		if err != nil {
			return "", domain.NewStorageError(op, err)
		}
		inserted, err := insert(id)
		if err != nil {
			return "", err
		}
		if inserted {
			return id, nil
		}
	}
	return "", domain.NewStorageError(op, errIDSpaceExhausted)
}
