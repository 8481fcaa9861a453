// Package sequence provides the PostgreSQL implementation of partition counters.
// This is the infrastructure layer - it implements core/sequence.Counter.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"edumaster/internal/core/apperror"
	coresequence "edumaster/internal/core/sequence"
	"edumaster/internal/core/tx"
	"edumaster/internal/infrastructure/storage/postgres"
)

var tracer = otel.Tracer("edumaster/sequence")

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// reserveSQL bumps the partition row, never going below the floor derived
// from stored records. The row lock taken by ON CONFLICT serializes
// concurrent reservations of one partition.
const reserveSQL = `
	INSERT INTO sys_sequences (key, current_val)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE
		SET current_val = GREATEST(sys_sequences.current_val + 1, EXCLUDED.current_val),
		    updated_at = now()
	RETURNING current_val
`

const setSQL = `
	INSERT INTO sys_sequences (key, current_val)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET current_val = $2, updated_at = now()
	RETURNING current_val
`

const peekSQL = `SELECT current_val FROM sys_sequences WHERE key = $1`

// Service reserves sequence numbers with a transactional read-modify-write
// on sys_sequences. Unlike LookupCounter, two processes sharing the database
// never receive the same number for one partition.
type Service struct {
	txManager tx.Manager
	querier   func(ctx context.Context) Querier
	// floor derives the minimum next number from stored person records
	floor coresequence.Counter
}

// Ensure compile-time interface compliance.
var _ coresequence.Counter = (*Service)(nil)

// New creates a counter bound to the transaction manager. floor is usually a
// LookupCounter over the person tables; nil starts partitions at 1.
func New(txManager *postgres.TxManager, floor coresequence.Counter) *Service {
	return &Service{
		txManager: txManager,
		querier:   func(ctx context.Context) Querier { return txManager.GetQuerier(ctx) },
		floor:     floor,
	}
}

// NewWithQuerier creates a counter over a static querier without transactions.
// Use for testing scenarios.
func NewWithQuerier(q Querier, floor coresequence.Counter) *Service {
	return &Service{
		txManager: tx.Direct,
		querier:   func(context.Context) Querier { return q },
		floor:     floor,
	}
}

// Next implements core/sequence.Counter.
func (s *Service) Next(ctx context.Context, key coresequence.PartitionKey) (coresequence.Reservation, error) {
	if s == nil {
		return coresequence.Reservation{}, fmt.Errorf("sequence service is not initialized")
	}

	ctx, span := tracer.Start(ctx, "sequence.reserve",
		trace.WithAttributes(attribute.String("sequence.partition", key.String())))
	defer span.End()

	var res coresequence.Reservation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		floor := coresequence.Reservation{Seq: 1, Outcome: coresequence.OutcomeFresh}
		if s.floor != nil {
			var err error
			if floor, err = s.floor.Next(ctx, key); err != nil {
				return err
			}
		}

		var num int64
		if err := s.querier(ctx).QueryRow(ctx, reserveSQL, key.String(), floor.Seq).Scan(&num); err != nil {
			return storeError(fmt.Errorf("reserve %s: %w", key, err))
		}

		res = floor
		if num != floor.Seq {
			res.Seq = num
			if res.Outcome == coresequence.OutcomeFresh {
				res.Outcome = coresequence.OutcomeContinued
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return coresequence.Reservation{}, err
	}

	span.SetAttributes(attribute.Int64("sequence.value", res.Seq))
	return res, nil
}

// SetLastNumber overwrites the last issued number of a partition (for migration purposes).
func (s *Service) SetLastNumber(ctx context.Context, key coresequence.PartitionKey, last int64) error {
	if last < 0 {
		return apperror.NewValidation("last number must not be negative")
	}

	var result int64
	if err := s.querier(ctx).QueryRow(ctx, setSQL, key.String(), last).Scan(&result); err != nil {
		return storeError(fmt.Errorf("set %s: %w", key, err))
	}
	return nil
}

// LastNumber returns the last issued number of a partition, 0 when the
// partition has no counter row yet.
func (s *Service) LastNumber(ctx context.Context, key coresequence.PartitionKey) (int64, error) {
	var last int64
	err := s.querier(ctx).QueryRow(ctx, peekSQL, key.String()).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storeError(fmt.Errorf("peek %s: %w", key, err))
	}
	return last, nil
}

// storeError keeps AppErrors intact and reports everything else as
// STORE_UNAVAILABLE.
func storeError(err error) error {
	mapped := postgres.MapError(err, "sequence", "key", "")
	if _, ok := apperror.AsAppError(mapped); ok {
		return mapped
	}
	return apperror.NewStoreUnavailable(err)
}
