package dto

import (
	"edumaster/internal/domain/identity"
)

// --- Request DTOs ---

// AllocateStudentIDRequest is the request body for a student identifier.
type AllocateStudentIDRequest struct {
	CourseCode    string `json:"courseCode" binding:"required"`
	AdmissionDate string `json:"admissionDate" binding:"required"`
	AdmissionType string `json:"admissionType" binding:"required"`
}

// AllocateEmployeeIDRequest is the request body for an employee identifier.
type AllocateEmployeeIDRequest struct {
	EmployeeType string `json:"employeeType" binding:"required"`
	JoiningDate  string `json:"joiningDate" binding:"required"`
}

// --- Response DTOs ---

// AllocationResponse describes an issued identifier.
type AllocationResponse struct {
	ID        string  `json:"id"`
	Partition string  `json:"partition"`
	Sequence  int64   `json:"sequence"`
	Outcome   string  `json:"outcome"`
	Warning   *string `json:"warning,omitempty"`
}

// FromAllocation converts a domain allocation to its response DTO.
func FromAllocation(a identity.Allocation) AllocationResponse {
	resp := AllocationResponse{
		ID:        a.ID,
		Partition: a.Key.String(),
		Sequence:  a.Seq,
		Outcome:   string(a.Outcome),
	}
	if a.Warning != nil {
		w := a.Warning.Error()
		resp.Warning = &w
	}
	return resp
}

// PasswordResponse carries a generated initial password.
type PasswordResponse struct {
	Password string `json:"password"`
}
