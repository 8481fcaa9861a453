package dto

import (
	"edumaster/internal/domain/enrollment"
)

// EnrollStudentRequest is the request body for admitting a student.
type EnrollStudentRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	CourseCode    string `json:"courseCode" binding:"required"`
	AdmissionType string `json:"admissionType" binding:"required"`
	AdmissionDate string `json:"admissionDate" binding:"required"`
}

// ToInput converts DTO to domain input.
func (r *EnrollStudentRequest) ToInput() (enrollment.StudentInput, error) {
	date, err := ParseDate("admissionDate", r.AdmissionDate)
	if err != nil {
		return enrollment.StudentInput{}, err
	}
	return enrollment.StudentInput{
		FullName:      r.FullName,
		CourseCode:    r.CourseCode,
		AdmissionType: r.AdmissionType,
		AdmissionDate: date,
	}, nil
}

// OnboardEmployeeRequest is the request body for registering an employee.
type OnboardEmployeeRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	EmployeeType string `json:"employeeType" binding:"required"`
	JoiningDate  string `json:"joiningDate" binding:"required"`
}

// ToInput converts DTO to domain input.
func (r *OnboardEmployeeRequest) ToInput() (enrollment.EmployeeInput, error) {
	date, err := ParseDate("joiningDate", r.JoiningDate)
	if err != nil {
		return enrollment.EmployeeInput{}, err
	}
	return enrollment.EmployeeInput{
		FullName:     r.FullName,
		EmployeeType: r.EmployeeType,
		JoiningDate:  date,
	}, nil
}

// CredentialsResponse is shown once to the operator; the password is not
// retrievable afterwards.
type CredentialsResponse struct {
	UserID   string  `json:"userId"`
	Password string  `json:"password"`
	Outcome  string  `json:"outcome"`
	Attempts int     `json:"attempts"`
	Warning  *string `json:"warning,omitempty"`
}

// FromCredentials converts domain credentials to the response DTO.
func FromCredentials(c *enrollment.Credentials) CredentialsResponse {
	resp := CredentialsResponse{
		UserID:   c.UserID,
		Password: c.Password,
		Outcome:  string(c.Outcome),
		Attempts: c.Attempts,
	}
	if c.Warning != "" {
		resp.Warning = &c.Warning
	}
	return resp
}
