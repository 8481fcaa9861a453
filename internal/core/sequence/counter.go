package sequence

import (
	"context"

	"edumaster/internal/core/apperror"
	"edumaster/pkg/logger"
)

// Outcome tags how a sequence number was derived.
type Outcome string

const (
	// OutcomeFresh: the partition had no prior record, numbering starts at 1.
	OutcomeFresh Outcome = "fresh"
	// OutcomeContinued: the prior record was parsed and incremented.
	OutcomeContinued Outcome = "continued"
	// OutcomeFallback: the prior record was malformed, numbering restarted at 1.
	OutcomeFallback Outcome = "fallback"
)

// Reservation is the tagged result of a counter step.
type Reservation struct {
	Seq     int64
	Outcome Outcome
	// Prior is the latest identifier the store reported, if any.
	Prior string
	// Cause is the MALFORMED_PRIOR_RECORD error behind an OutcomeFallback.
	Cause error
}

// Lookup is the single capability the allocator needs from the record store:
// the greatest identifier issued in a partition's calendar year.
type Lookup interface {
	LatestIdentifier(ctx context.Context, key PartitionKey) (identifier string, found bool, err error)
}

// Counter hands out the next sequence number of a partition.
//
// Implementations differ in their concurrency guarantee: LookupCounter is
// unguarded, LocalCounter serializes one process, and the store-backed
// counter in infrastructure/sequence serializes all processes sharing a database.
type Counter interface {
	Next(ctx context.Context, key PartitionKey) (Reservation, error)
}

// LookupCounter derives the next number from the latest stored identifier.
// Two concurrent calls for the same partition may read the same record and
// return the same number; wrap it with LocalCounter or use the store-backed
// counter when that matters.
type LookupCounter struct {
	lookup Lookup
	cfg    Config
}

// NewLookupCounter creates a counter over a record store lookup.
func NewLookupCounter(lookup Lookup, cfg Config) *LookupCounter {
	return &LookupCounter{lookup: lookup, cfg: cfg}
}

// Next implements Counter.
func (c *LookupCounter) Next(ctx context.Context, key PartitionKey) (Reservation, error) {
	prior, found, err := c.lookup.LatestIdentifier(ctx, key)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeStoreUnavailable {
			return Reservation{}, appErr
		}
		return Reservation{}, apperror.NewStoreUnavailable(err).WithDetail("partition", key.String())
	}
	if !found {
		return Reservation{Seq: 1, Outcome: OutcomeFresh}, nil
	}

	last, err := c.cfg.ParseSuffix(key, prior)
	if err != nil {
		logger.Warn(ctx, "malformed prior identifier",
			"event", apperror.CodeMalformedPriorRecord,
			"partition", key.String(),
			"identifier", prior,
			"error", err,
		)
		return Reservation{Seq: 1, Outcome: OutcomeFallback, Prior: prior, Cause: err}, nil
	}

	return Reservation{Seq: last + 1, Outcome: OutcomeContinued, Prior: prior}, nil
}
