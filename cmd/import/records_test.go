package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumaster/internal/core/apperror"
	"edumaster/internal/core/sequence"
)

func TestReadRecords_Students(t *testing.T) {
	in := `user_id,full_name,course_code,admission_type,admission_date
BT2019R014,Legacy One,BT,R,2019-07-01
bt2019r003, Legacy Two ,bt,r,2019-08-15
ME2020F001,Legacy Three,ME,F,2020-07-01
`
	b, err := readRecords(strings.NewReader(in), "students", sequence.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, b.students, 3)
	assert.Equal(t, "BT2019R003", b.students[1].UserID)
	assert.Equal(t, "Legacy Two", b.students[1].FullName)
	assert.Equal(t, time.Date(2019, time.August, 15, 0, 0, 0, 0, time.UTC), b.students[1].AdmissionDate)

	bt := sequence.StudentKey("BT", time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), "R")
	me := sequence.StudentKey("ME", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), "F")
	assert.Equal(t, map[sequence.PartitionKey]int64{bt: 14, me: 1}, b.highest)
}

func TestReadRecords_Employees(t *testing.T) {
	in := "user_id,full_name,employee_type,joining_date\nEM2021T007,Meera Iyer,T,2021-02-02\n"
	b, err := readRecords(strings.NewReader(in), "employees", sequence.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, b.employees, 1)
	assert.Equal(t, "T", b.employees[0].EmployeeType)
	assert.Equal(t, 1, b.size())
}

func TestReadRecords_Rejects(t *testing.T) {
	tests := []struct {
		name string
		kind string
		in   string
	}{
		{name: "unknown kind", kind: "alumni", in: "user_id\n"},
		{name: "wrong header", kind: "employees", in: "id,name,type,date\n"},
		{name: "bad date", kind: "employees", in: "user_id,full_name,employee_type,joining_date\nEM2021T007,A,T,02/02/2021\n"},
		{name: "duplicate", kind: "employees", in: "user_id,full_name,employee_type,joining_date\nEM2021T007,A,T,2021-02-02\nEM2021T007,B,T,2021-03-02\n"},
		{name: "short row", kind: "employees", in: "user_id,full_name,employee_type,joining_date\nEM2021T007,A,T\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readRecords(strings.NewReader(tt.in), tt.kind, sequence.DefaultConfig())
			assert.Error(t, err)
		})
	}
}

func TestReadRecords_MalformedIdentifier(t *testing.T) {
	// Year in the id does not match the joining date.
	in := "user_id,full_name,employee_type,joining_date\nEM2020T007,A,T,2021-02-02\n"
	_, err := readRecords(strings.NewReader(in), "employees", sequence.DefaultConfig())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeMalformedPriorRecord))
}
