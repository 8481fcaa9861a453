// Package identity allocates student and employee codes.
//
// Student IDs look like BT2023F001 (course, admission year, admission type,
// sequence) and employee IDs like EM2023T001 (fixed EM, joining year,
// employee type, sequence). The allocator only computes the identifier; the
// caller persists the record that carries it.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edumaster/internal/core/apperror"
	"edumaster/internal/core/sequence"
	"edumaster/pkg/logger"
)

// Allocation is the result of a successful allocation.
type Allocation struct {
	ID      string
	Key     sequence.PartitionKey
	Seq     int64
	Outcome sequence.Outcome
	// Warning is set when the prior record of the partition was malformed
	// and numbering restarted at 1.
	Warning error
}

// Allocator computes the next identifier for a partition.
type Allocator struct {
	counter sequence.Counter
	cfg     sequence.Config
}

// NewAllocator creates an allocator on top of a sequence counter.
func NewAllocator(counter sequence.Counter, cfg sequence.Config) *Allocator {
	return &Allocator{counter: counter, cfg: cfg}
}

// AllocateStudentID returns the next {courseCode}{year}{admissionType}{seq} identifier.
func (a *Allocator) AllocateStudentID(ctx context.Context, courseCode string, admissionDate time.Time, admissionType string) (Allocation, error) {
	courseCode = normalizeCode(courseCode)
	admissionType = normalizeCode(admissionType)

	if courseCode == "" {
		return Allocation{}, apperror.NewValidation("course code is required")
	}
	if admissionType == "" {
		return Allocation{}, apperror.NewValidation("admission type is required")
	}
	if admissionDate.IsZero() {
		return Allocation{}, apperror.NewValidation("admission date is required")
	}

	return a.allocate(ctx, sequence.StudentKey(courseCode, admissionDate, admissionType))
}

// AllocateEmployeeID returns the next EM{year}{employeeType}{seq} identifier.
func (a *Allocator) AllocateEmployeeID(ctx context.Context, employeeType string, joiningDate time.Time) (Allocation, error) {
	employeeType = normalizeCode(employeeType)

	if employeeType == "" {
		return Allocation{}, apperror.NewValidation("employee type is required")
	}
	if joiningDate.IsZero() {
		return Allocation{}, apperror.NewValidation("joining date is required")
	}

	return a.allocate(ctx, sequence.EmployeeKey(employeeType, joiningDate))
}

func (a *Allocator) allocate(ctx context.Context, key sequence.PartitionKey) (Allocation, error) {
	if a == nil || a.counter == nil {
		return Allocation{}, fmt.Errorf("allocator is not initialized")
	}

	res, err := a.counter.Next(ctx, key)
	if err != nil {
		return Allocation{}, err
	}

	id, err := a.cfg.Format(key, res.Seq)
	if err != nil {
		return Allocation{}, err
	}

	logger.Debug(ctx, "identifier allocated",
		"partition", key.String(),
		"id", id,
		"outcome", res.Outcome,
	)

	return Allocation{
		ID:      id,
		Key:     key,
		Seq:     res.Seq,
		Outcome: res.Outcome,
		Warning: res.Cause,
	}, nil
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
