package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"edumaster/internal/core/apperror"
)

// DefaultWidth is the zero-padded width of the sequence suffix.
const DefaultWidth = 3

// Config holds identifier formatting configuration.
type Config struct {
	// Width is the fixed number of sequence digits (default 3)
	Width int
}

// DefaultConfig returns the three-digit layout used by admission and onboarding.
func DefaultConfig() Config {
	return Config{Width: DefaultWidth}
}

func (c Config) width() int {
	if c.Width <= 0 {
		return DefaultWidth
	}
	return c.Width
}

// MaxSeq returns the largest sequence number that fits the width.
func (c Config) MaxSeq() int64 {
	max := int64(1)
	for i := 0; i < c.width(); i++ {
		max *= 10
	}
	return max - 1
}

// Format renders {prefix}{year}{subtype}{seq}, seq zero-padded to the width.
// Numbers that would widen the identifier are rejected with PARTITION_EXHAUSTED.
func (c Config) Format(key PartitionKey, seq int64) (string, error) {
	if seq < 1 {
		return "", apperror.NewValidation(fmt.Sprintf("sequence number must be positive, got %d", seq))
	}
	if seq > c.MaxSeq() {
		return "", apperror.NewPartitionExhausted(key.String(), seq, c.width())
	}
	return fmt.Sprintf("%s%0*d", key.IDPrefix(), c.width(), seq), nil
}

// ParseSuffix extracts the sequence number from a previously issued identifier.
// Failures are MALFORMED_PRIOR_RECORD errors.
func (c Config) ParseSuffix(key PartitionKey, identifier string) (int64, error) {
	w := c.width()
	prefix := key.IDPrefix()
	if !strings.HasPrefix(identifier, prefix) {
		return 0, apperror.NewMalformedPriorRecord(key.String(), identifier, "partition prefix mismatch")
	}
	if len(identifier) != len(prefix)+w {
		return 0, apperror.NewMalformedPriorRecord(key.String(), identifier, "unexpected length")
	}

	suffix := identifier[len(identifier)-w:]
	num, err := strconv.ParseUint(suffix, 10, 63)
	if err != nil {
		return 0, apperror.NewMalformedPriorRecord(key.String(), identifier, "non-numeric suffix").WithCause(err)
	}
	return int64(num), nil
}
