// Package person_repo provides PostgreSQL storage for student and faculty records.
package person_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"edumaster/internal/core/sequence"
	"edumaster/internal/domain/enrollment"
	"edumaster/internal/infrastructure/storage/postgres"
)

const (
	studentTable  = "master_student"
	employeeTable = "master_faculty"
)

// partitionColumns maps a scheme onto its table and partition columns.
type partitionColumns struct {
	table   string
	prefix  string // empty when the prefix is fixed (employees)
	subtype string
	date    string
}

var schemes = map[sequence.Scheme]partitionColumns{
	sequence.SchemeStudent:  {table: studentTable, prefix: "course_code", subtype: "admission_type", date: "admission_date"},
	sequence.SchemeEmployee: {table: employeeTable, subtype: "employee_type", date: "joining_date"},
}

// Repo stores person records and answers "latest identifier" lookups.
type Repo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
}

// NewRepo creates a new person repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
	}
}

// Ensure compile-time interface compliance.
var (
	_ sequence.Lookup       = (*Repo)(nil)
	_ enrollment.Repository = (*Repo)(nil)
)

// builder returns a new squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// latestQuery selects the greatest user_id of a partition's calendar year.
func latestQuery(key sequence.PartitionKey) (squirrel.SelectBuilder, error) {
	cols, ok := schemes[key.Scheme]
	if !ok {
		return squirrel.SelectBuilder{}, fmt.Errorf("unknown scheme %q", key.Scheme)
	}
	from, to := key.Window()

	q := builder().
		Select("user_id").
		From(cols.table)
	if cols.prefix != "" {
		q = q.Where(squirrel.Eq{cols.prefix: key.Prefix})
	}
	q = q.Where(squirrel.Eq{cols.subtype: key.Subtype}).
		Where(squirrel.GtOrEq{cols.date: from}).
		Where(squirrel.Lt{cols.date: to}).
		OrderBy("user_id DESC").
		Limit(1)
	return q, nil
}

// LatestIdentifier implements sequence.Lookup.
func (r *Repo) LatestIdentifier(ctx context.Context, key sequence.PartitionKey) (string, bool, error) {
	q, err := latestQuery(key)
	if err != nil {
		return "", false, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build latest query: %w", err)
	}

	var userID string
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &userID, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return "", false, nil
		}
		return "", false, postgres.MapError(fmt.Errorf("latest %s identifier: %w", key.Scheme, err), string(key.Scheme), "user_id", key.IDPrefix())
	}
	return userID, true, nil
}

func studentInsert(s *enrollment.Student) squirrel.InsertBuilder {
	return builder().Insert(studentTable).SetMap(postgres.StructToMap(s))
}

func employeeInsert(e *enrollment.Employee) squirrel.InsertBuilder {
	return builder().Insert(employeeTable).SetMap(postgres.StructToMap(e))
}

// CreateStudent implements enrollment.Repository.
func (r *Repo) CreateStudent(ctx context.Context, s *enrollment.Student) error {
	return r.exec(ctx, studentInsert(s), "student", s.UserID)
}

// CreateEmployee implements enrollment.Repository.
func (r *Repo) CreateEmployee(ctx context.Context, e *enrollment.Employee) error {
	return r.exec(ctx, employeeInsert(e), "employee", e.UserID)
}

func (r *Repo) exec(ctx context.Context, q squirrel.InsertBuilder, entity, userID string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert %s: %w", entity, err), entity, "user_id", userID)
	}
	return nil
}

// ImportStudents bulk-loads legacy student records. Must run in a transaction.
func (r *Repo) ImportStudents(ctx context.Context, students []*enrollment.Student) (int64, error) {
	rows := make([][]any, len(students))
	for i, s := range students {
		rows[i] = postgres.RowValues(s)
	}
	return r.batch.CopyFromSlice(ctx, studentTable, postgres.Columns[enrollment.Student](), rows)
}

// ImportEmployees bulk-loads legacy employee records. Must run in a transaction.
func (r *Repo) ImportEmployees(ctx context.Context, employees []*enrollment.Employee) (int64, error) {
	rows := make([][]any, len(employees))
	for i, e := range employees {
		rows[i] = postgres.RowValues(e)
	}
	return r.batch.CopyFromSlice(ctx, employeeTable, postgres.Columns[enrollment.Employee](), rows)
}
