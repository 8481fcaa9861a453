// Package enrollment admits students and onboards employees: it allocates
// their coded identifier, issues an initial password and persists the record.
package enrollment

import (
	"context"
	"time"

	"edumaster/internal/core/sequence"
)

// Student is a row of master_student.
type Student struct {
	UserID        string    `db:"user_id"`
	FullName      string    `db:"full_name"`
	CourseCode    string    `db:"course_code"`
	AdmissionType string    `db:"admission_type"`
	AdmissionDate time.Time `db:"admission_date"`
	PasswordHash  string    `db:"password_hash"`
	CreatedAt     time.Time `db:"created_at"`
}

// Employee is a row of master_faculty.
type Employee struct {
	UserID       string    `db:"user_id"`
	FullName     string    `db:"full_name"`
	EmployeeType string    `db:"employee_type"`
	JoiningDate  time.Time `db:"joining_date"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// StudentInput is what the admission form submits.
type StudentInput struct {
	FullName      string
	CourseCode    string
	AdmissionType string
	AdmissionDate time.Time
}

// EmployeeInput is what the onboarding form submits.
type EmployeeInput struct {
	FullName     string
	EmployeeType string
	JoiningDate  time.Time
}

// Credentials are returned once to the operator who created the record.
type Credentials struct {
	UserID   string
	Password string
	Outcome  sequence.Outcome
	Attempts int
	Warning  string
}

// Repository persists person records. Implementations must enforce
// uniqueness of UserID and report violations as DUPLICATE_ENTRY.
type Repository interface {
	CreateStudent(ctx context.Context, s *Student) error
	CreateEmployee(ctx context.Context, e *Employee) error
}

// Auditor records issued identifiers.
type Auditor interface {
	LogChange(ctx context.Context, entityType, entityID, action string, changes map[string]any) error
}
