package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"edumaster/internal/core/sequence"
	"edumaster/internal/domain/enrollment"
)

const dateLayout = "2006-01-02"

var (
	studentHeader  = []string{"user_id", "full_name", "course_code", "admission_type", "admission_date"}
	employeeHeader = []string{"user_id", "full_name", "employee_type", "joining_date"}
)

// batch is a parsed import file plus the highest sequence seen per partition.
type batch struct {
	students  []*enrollment.Student
	employees []*enrollment.Employee
	highest   map[sequence.PartitionKey]int64
}

func (b *batch) track(key sequence.PartitionKey, seq int64) {
	if seq > b.highest[key] {
		b.highest[key] = seq
	}
}

func (b *batch) size() int {
	return len(b.students) + len(b.employees)
}

// readRecords parses a CSV export of legacy records. Every user_id must be
// well formed for its own partition; a malformed one would restart the
// partition's numbering, so the whole file is rejected instead.
func readRecords(r io.Reader, kind string, cfg sequence.Config) (*batch, error) {
	var header []string
	switch kind {
	case "students":
		header = studentHeader
	case "employees":
		header = employeeHeader
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(first[i])) != col {
			return nil, fmt.Errorf("header column %d: want %q, got %q", i+1, col, first[i])
		}
	}

	b := &batch{highest: make(map[sequence.PartitionKey]int64)}
	seen := make(map[string]int)
	now := time.Now().UTC()

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		userID := strings.ToUpper(strings.TrimSpace(row[0]))
		if prev, ok := seen[userID]; ok {
			return nil, fmt.Errorf("line %d: %s already appears on line %d", line, userID, prev)
		}
		seen[userID] = line

		var key sequence.PartitionKey
		if kind == "students" {
			s, err := studentRow(row, userID, now)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			key = sequence.StudentKey(s.CourseCode, s.AdmissionDate, s.AdmissionType)
			b.students = append(b.students, s)
		} else {
			e, err := employeeRow(row, userID, now)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			key = sequence.EmployeeKey(e.EmployeeType, e.JoiningDate)
			b.employees = append(b.employees, e)
		}

		seq, err := cfg.ParseSuffix(key, userID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b.track(key, seq)
	}

	return b, nil
}

func studentRow(row []string, userID string, now time.Time) (*enrollment.Student, error) {
	date, err := parseDate(row[4])
	if err != nil {
		return nil, err
	}
	return &enrollment.Student{
		UserID:        userID,
		FullName:      strings.TrimSpace(row[1]),
		CourseCode:    strings.ToUpper(strings.TrimSpace(row[2])),
		AdmissionType: strings.ToUpper(strings.TrimSpace(row[3])),
		AdmissionDate: date,
		CreatedAt:     now,
	}, nil
}

func employeeRow(row []string, userID string, now time.Time) (*enrollment.Employee, error) {
	date, err := parseDate(row[3])
	if err != nil {
		return nil, err
	}
	return &enrollment.Employee{
		UserID:       userID,
		FullName:     strings.TrimSpace(row[1]),
		EmployeeType: strings.ToUpper(strings.TrimSpace(row[2])),
		JoiningDate:  date,
		CreatedAt:    now,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want %s", s, dateLayout)
	}
	return t, nil
}
