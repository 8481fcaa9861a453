package person_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumaster/internal/core/sequence"
	"edumaster/internal/domain/enrollment"
	"edumaster/internal/infrastructure/storage/postgres"
)

func TestLatestQuery(t *testing.T) {
	year2023 := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	year2024 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		key      sequence.PartitionKey
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "student",
			key:      sequence.StudentKey("BT", time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), "F"),
			wantSQL:  "SELECT user_id FROM master_student WHERE course_code = $1 AND admission_type = $2 AND admission_date >= $3 AND admission_date < $4 ORDER BY user_id DESC LIMIT 1",
			wantArgs: []any{"BT", "F", year2023, year2024},
		},
		{
			name:     "employee",
			key:      sequence.EmployeeKey("T", time.Date(2023, time.February, 2, 0, 0, 0, 0, time.UTC)),
			wantSQL:  "SELECT user_id FROM master_faculty WHERE employee_type = $1 AND joining_date >= $2 AND joining_date < $3 ORDER BY user_id DESC LIMIT 1",
			wantArgs: []any{"T", year2023, year2024},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := latestQuery(tt.key)
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestLatestQuery_UnknownScheme(t *testing.T) {
	_, err := latestQuery(sequence.PartitionKey{Scheme: "alumni", Year: 2023})
	assert.Error(t, err)
}

func TestStudentInsert(t *testing.T) {
	s := &enrollment.Student{
		UserID:        "BT2023F001",
		FullName:      "Asha Verma",
		CourseCode:    "BT",
		AdmissionType: "F",
		AdmissionDate: time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash:  "hash",
	}

	sql, args, err := studentInsert(s).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "INSERT INTO master_student "))
	// SetMap orders columns alphabetically, user_id comes last.
	assert.Contains(t, sql, "(admission_date,admission_type,course_code,created_at,full_name,password_hash,user_id)")
	assert.Contains(t, sql, "$7")
	require.Len(t, args, 7)
	assert.Equal(t, "BT2023F001", args[6])
}

func TestEmployeeInsert(t *testing.T) {
	sql, args, err := employeeInsert(&enrollment.Employee{UserID: "EM2023T001", EmployeeType: "T"}).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "INSERT INTO master_faculty "))
	assert.Contains(t, sql, "(created_at,employee_type,full_name,joining_date,password_hash,user_id)")
	require.Len(t, args, 6)
	assert.Equal(t, "EM2023T001", args[5])
}

func TestImportColumns(t *testing.T) {
	s := &enrollment.Student{UserID: "BT2019R014", FullName: "Legacy", CourseCode: "BT", AdmissionType: "R"}
	cols := postgres.Columns[enrollment.Student]()
	vals := postgres.RowValues(s)

	require.Len(t, vals, len(cols))
	assert.Equal(t, "user_id", cols[0])
	assert.Equal(t, "BT2019R014", vals[0])
	assert.Contains(t, cols, "password_hash")
}
