// Package sequence provides domain contracts for partitioned coded identifiers.
// Store-backed implementations live in infrastructure layer.
package sequence

import (
	"fmt"
	"time"
)

// Scheme selects the person table a partition numbers.
type Scheme string

const (
	SchemeStudent  Scheme = "student"
	SchemeEmployee Scheme = "employee"
)

// EmployeePrefix is the fixed code every employee identifier starts with.
const EmployeePrefix = "EM"

// PartitionKey identifies one independent numbering sequence.
// Year is part of the key, so a new calendar year starts a new sequence.
type PartitionKey struct {
	Scheme Scheme
	// Prefix is the course code for students and EmployeePrefix for employees.
	Prefix string
	Year   int
	// Subtype is the admission type for students and the employee type for employees.
	Subtype string
}

// StudentKey builds the partition of a student admitted on admissionDate.
func StudentKey(courseCode string, admissionDate time.Time, admissionType string) PartitionKey {
	return PartitionKey{
		Scheme:  SchemeStudent,
		Prefix:  courseCode,
		Year:    admissionDate.Year(),
		Subtype: admissionType,
	}
}

// EmployeeKey builds the partition of an employee joining on joiningDate.
func EmployeeKey(employeeType string, joiningDate time.Time) PartitionKey {
	return PartitionKey{
		Scheme:  SchemeEmployee,
		Prefix:  EmployeePrefix,
		Year:    joiningDate.Year(),
		Subtype: employeeType,
	}
}

// IDPrefix is the identifier text preceding the sequence number (e.g. BT2023F).
func (k PartitionKey) IDPrefix() string {
	return fmt.Sprintf("%s%d%s", k.Prefix, k.Year, k.Subtype)
}

// Window returns the half-open calendar year [from, to) the partition covers.
func (k PartitionKey) Window() (from, to time.Time) {
	from = time.Date(k.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// String renders the stable counter key, e.g. "student:BT:2023:F".
func (k PartitionKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%s", k.Scheme, k.Prefix, k.Year, k.Subtype)
}
