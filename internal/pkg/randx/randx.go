/*
Package randx provides functions for generating cryptographically secure random identifiers.

It generates the unique per-event message IDs carried on the realtime channel
and the opaque connection IDs attached to live sessions.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// EventIDLength is the fixed length of generated event IDs. 21 Base62
	// characters give well over 120 bits of entropy, enough that collisions
	// are not a practical concern.
	EventIDLength = 21
)

// EventID generates a fresh opaque identifier for a wire event using
// crypto/rand. Event IDs are never reused and never derived from content.
func EventID() (string, error) {
	result := make([]byte, EventIDLength)

	for i := 0; i < EventIDLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for event id: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// ConnectionID generates a UUID v4 string identifying one live transport session.
func ConnectionID() string {
	return uuid.New().String()
}
