package enrollment

import (
	"context"
	"strings"
	"time"

	"edumaster/internal/core/apperror"
	"edumaster/internal/core/tx"
	"edumaster/internal/domain/identity"
	"edumaster/pkg/logger"
)

// Config controls enrollment behavior.
type Config struct {
	// MaxAttempts bounds allocate+persist retries after a duplicate identifier.
	MaxAttempts int
}

// DefaultConfig returns standard enrollment settings.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3}
}

// Service creates person records with freshly allocated identifiers.
type Service struct {
	allocator *identity.Allocator
	repo      Repository
	auditor   Auditor
	txManager tx.Manager
	passwords *identity.PasswordGenerator
	cfg       Config
}

// NewService creates a new enrollment service.
// auditor may be nil; txManager nil runs without a transaction.
func NewService(
	allocator *identity.Allocator,
	repo Repository,
	auditor Auditor,
	txManager tx.Manager,
	cfg Config,
) *Service {
	if txManager == nil {
		txManager = tx.Direct
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Service{
		allocator: allocator,
		repo:      repo,
		auditor:   auditor,
		txManager: txManager,
		passwords: identity.NewPasswordGenerator(nil),
		cfg:       cfg,
	}
}

// EnrollStudent admits a student under the next free identifier of the
// course/year/admission-type partition.
func (s *Service) EnrollStudent(ctx context.Context, in StudentInput) (*Credentials, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.NewValidation("full name is required")
	}

	return s.create(ctx, "student", func(ctx context.Context, hash string) (identity.Allocation, error) {
		a, err := s.allocator.AllocateStudentID(ctx, in.CourseCode, in.AdmissionDate, in.AdmissionType)
		if err != nil {
			return a, err
		}
		err = s.repo.CreateStudent(ctx, &Student{
			UserID:        a.ID,
			FullName:      strings.TrimSpace(in.FullName),
			CourseCode:    a.Key.Prefix,
			AdmissionType: a.Key.Subtype,
			AdmissionDate: in.AdmissionDate,
			PasswordHash:  hash,
			CreatedAt:     time.Now().UTC(),
		})
		return a, err
	})
}

// OnboardEmployee registers an employee under the next free identifier of
// the employee-type/year partition.
func (s *Service) OnboardEmployee(ctx context.Context, in EmployeeInput) (*Credentials, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.NewValidation("full name is required")
	}

	return s.create(ctx, "employee", func(ctx context.Context, hash string) (identity.Allocation, error) {
		a, err := s.allocator.AllocateEmployeeID(ctx, in.EmployeeType, in.JoiningDate)
		if err != nil {
			return a, err
		}
		err = s.repo.CreateEmployee(ctx, &Employee{
			UserID:       a.ID,
			FullName:     strings.TrimSpace(in.FullName),
			EmployeeType: a.Key.Subtype,
			JoiningDate:  in.JoiningDate,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		})
		return a, err
	})
}

// create runs allocate+persist in a transaction and repeats it while the
// store rejects the identifier as a duplicate.
func (s *Service) create(
	ctx context.Context,
	entity string,
	persist func(ctx context.Context, passwordHash string) (identity.Allocation, error),
) (*Credentials, error) {
	password := s.passwords.Generate()
	hash, err := identity.HashPassword(password)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	for attempt := 1; ; attempt++ {
		var alloc identity.Allocation
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			var err error
			if alloc, err = persist(ctx, hash); err != nil {
				return err
			}
			return s.audit(ctx, entity, alloc, attempt)
		})

		if err == nil {
			creds := &Credentials{
				UserID:   alloc.ID,
				Password: password,
				Outcome:  alloc.Outcome,
				Attempts: attempt,
			}
			if alloc.Warning != nil {
				creds.Warning = alloc.Warning.Error()
			}
			logger.Info(ctx, "person record created",
				"entity", entity,
				"user_id", alloc.ID,
				"outcome", alloc.Outcome,
				"attempts", attempt,
			)
			return creds, nil
		}

		if !apperror.IsDuplicate(err) || attempt >= s.cfg.MaxAttempts {
			return nil, err
		}
		logger.Warn(ctx, "identifier already taken, retrying",
			"entity", entity,
			"user_id", alloc.ID,
			"attempt", attempt,
		)
	}
}

func (s *Service) audit(ctx context.Context, entity string, a identity.Allocation, attempt int) error {
	if s.auditor == nil {
		return nil
	}

	changes := map[string]any{
		"partition": a.Key.String(),
		"sequence":  a.Seq,
		"outcome":   a.Outcome,
		"attempt":   attempt,
	}
	if a.Warning != nil {
		changes["warning"] = a.Warning.Error()
	}
	return s.auditor.LogChange(ctx, entity, a.ID, "create", changes)
}
