package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces the identifier shared by the entries of one sale.
type IDGenerator func() string

// UUIDGenerator returns random UUIDs.
func UUIDGenerator() IDGenerator {
	return func() string {
		return uuid.New().String()
	}
}

// TimestampGenerator returns YYYYMMDDhhmmss identifiers taken from now.
// Two sales registered within the same second share an identifier.
func TimestampGenerator(now func() time.Time) IDGenerator {
	return func() string {
		return now().Format("20060102150405")
	}
}

// NewIDGenerator resolves a strategy name from configuration.
func NewIDGenerator(strategy string, now func() time.Time) (IDGenerator, error) {
	switch strategy {
	case "", "uuid":
		return UUIDGenerator(), nil
	case "timestamp":
		return TimestampGenerator(now), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
