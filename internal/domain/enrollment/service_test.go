package enrollment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumaster/internal/core/apperror"
	"edumaster/internal/core/sequence"
	"edumaster/internal/domain/identity"
)

// memoryRepo stores records by user id and answers partition lookups.
// The first staleReads lookups report an empty partition, like a replica
// that has not caught up with a concurrent insert.
type memoryRepo struct {
	mu         sync.Mutex
	students   map[string]*Student
	employees  map[string]*Employee
	latest     map[string]string
	staleReads int
	lookupErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		students:  make(map[string]*Student),
		employees: make(map[string]*Employee),
		latest:    make(map[string]string),
	}
}

func (r *memoryRepo) LatestIdentifier(_ context.Context, key sequence.PartitionKey) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lookupErr != nil {
		return "", false, r.lookupErr
	}
	if r.staleReads > 0 {
		r.staleReads--
		return "", false, nil
	}
	id, ok := r.latest[key.String()]
	return id, ok, nil
}

func (r *memoryRepo) track(key sequence.PartitionKey, id string) {
	if id > r.latest[key.String()] {
		r.latest[key.String()] = id
	}
}

func (r *memoryRepo) CreateStudent(_ context.Context, s *Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[s.UserID]; ok {
		return apperror.NewDuplicate("student", "user_id", s.UserID)
	}
	r.students[s.UserID] = s
	r.track(sequence.StudentKey(s.CourseCode, s.AdmissionDate, s.AdmissionType), s.UserID)
	return nil
}

func (r *memoryRepo) CreateEmployee(_ context.Context, e *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[e.UserID]; ok {
		return apperror.NewDuplicate("employee", "user_id", e.UserID)
	}
	r.employees[e.UserID] = e
	r.track(sequence.EmployeeKey(e.EmployeeType, e.JoiningDate), e.UserID)
	return nil
}

type recordingAuditor struct {
	entries []map[string]any
}

func (a *recordingAuditor) LogChange(_ context.Context, entityType, entityID, action string, changes map[string]any) error {
	entry := map[string]any{"entity_type": entityType, "entity_id": entityID, "action": action}
	for k, v := range changes {
		entry[k] = v
	}
	a.entries = append(a.entries, entry)
	return nil
}

func newTestService(repo *memoryRepo, auditor Auditor) *Service {
	cfg := sequence.DefaultConfig()
	alloc := identity.NewAllocator(sequence.NewLookupCounter(repo, cfg), cfg)
	return NewService(alloc, repo, auditor, nil, DefaultConfig())
}

var admission = time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)

func TestEnrollStudent(t *testing.T) {
	repo := newMemoryRepo()
	auditor := &recordingAuditor{}
	svc := newTestService(repo, auditor)
	ctx := context.Background()

	creds, err := svc.EnrollStudent(ctx, StudentInput{
		FullName:      "Asha Verma",
		CourseCode:    "bt",
		AdmissionType: "F",
		AdmissionDate: admission,
	})
	require.NoError(t, err)
	assert.Equal(t, "BT2023F001", creds.UserID)
	assert.Equal(t, sequence.OutcomeFresh, creds.Outcome)
	assert.Equal(t, 1, creds.Attempts)
	assert.Len(t, creds.Password, identity.PasswordLength)

	stored := repo.students["BT2023F001"]
	require.NotNil(t, stored)
	assert.Equal(t, "BT", stored.CourseCode)
	assert.True(t, identity.CheckPassword(stored.PasswordHash, creds.Password))

	creds, err = svc.EnrollStudent(ctx, StudentInput{
		FullName:      "Ravi Nair",
		CourseCode:    "BT",
		AdmissionType: "F",
		AdmissionDate: admission,
	})
	require.NoError(t, err)
	assert.Equal(t, "BT2023F002", creds.UserID)
	assert.Equal(t, sequence.OutcomeContinued, creds.Outcome)

	require.Len(t, auditor.entries, 2)
	assert.Equal(t, "student", auditor.entries[0]["entity_type"])
	assert.Equal(t, "BT2023F001", auditor.entries[0]["entity_id"])
	assert.Equal(t, "student:BT:2023:F", auditor.entries[0]["partition"])
}

func TestEnrollStudent_RetriesOnDuplicate(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.EnrollStudent(ctx, StudentInput{FullName: "First", CourseCode: "BT", AdmissionType: "F", AdmissionDate: admission})
	require.NoError(t, err)

	repo.staleReads = 1
	creds, err := svc.EnrollStudent(ctx, StudentInput{FullName: "Second", CourseCode: "BT", AdmissionType: "F", AdmissionDate: admission})
	require.NoError(t, err)
	assert.Equal(t, "BT2023F002", creds.UserID)
	assert.Equal(t, 2, creds.Attempts)
}

func TestEnrollStudent_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.EnrollStudent(ctx, StudentInput{FullName: "First", CourseCode: "BT", AdmissionType: "F", AdmissionDate: admission})
	require.NoError(t, err)

	repo.staleReads = 10
	_, err = svc.EnrollStudent(ctx, StudentInput{FullName: "Second", CourseCode: "BT", AdmissionType: "F", AdmissionDate: admission})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
	assert.Equal(t, 10-DefaultConfig().MaxAttempts, repo.staleReads)
}

func TestEnrollStudent_StoreUnavailableIsNotRetried(t *testing.T) {
	repo := newMemoryRepo()
	repo.lookupErr = errors.New("connection reset by peer")
	svc := newTestService(repo, nil)

	_, err := svc.EnrollStudent(context.Background(), StudentInput{FullName: "A", CourseCode: "BT", AdmissionType: "F", AdmissionDate: admission})
	require.Error(t, err)
	assert.True(t, apperror.IsStoreUnavailable(err))
	assert.Empty(t, repo.students)
}

func TestEnrollStudent_Validation(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)

	_, err := svc.EnrollStudent(context.Background(), StudentInput{CourseCode: "BT", AdmissionType: "F", AdmissionDate: admission})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.EnrollStudent(context.Background(), StudentInput{FullName: "A", AdmissionType: "F", AdmissionDate: admission})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestOnboardEmployee(t *testing.T) {
	repo := newMemoryRepo()
	repo.latest[sequence.EmployeeKey("T", admission).String()] = "EM2023T009"
	svc := newTestService(repo, nil)

	creds, err := svc.OnboardEmployee(context.Background(), EmployeeInput{
		FullName:     "Meera Iyer",
		EmployeeType: "t",
		JoiningDate:  admission,
	})
	require.NoError(t, err)
	assert.Equal(t, "EM2023T010", creds.UserID)
	assert.Equal(t, "T", repo.employees["EM2023T010"].EmployeeType)
}

func TestOnboardEmployee_MalformedPriorRecordWarns(t *testing.T) {
	repo := newMemoryRepo()
	repo.latest[sequence.EmployeeKey("T", admission).String()] = "EM2023TABC"
	svc := newTestService(repo, nil)

	creds, err := svc.OnboardEmployee(context.Background(), EmployeeInput{FullName: "X", EmployeeType: "T", JoiningDate: admission})
	require.NoError(t, err)
	assert.Equal(t, "EM2023T001", creds.UserID)
	assert.Equal(t, sequence.OutcomeFallback, creds.Outcome)
	assert.Contains(t, creds.Warning, apperror.CodeMalformedPriorRecord)
}
