package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Stamps struct {
	CreatedAt time.Time `db:"created_at"`
}

type person struct {
	UserID   string `db:"user_id"`
	FullName string `db:"full_name"`
	Scratch  string `db:"-"`
	note     string
	Stamps
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"user_id", "full_name", "created_at"}, Columns[person]())
	assert.Equal(t, Columns[person](), Columns[*person]())
	assert.Empty(t, Columns[int]())
}

func TestRowValuesAndMap(t *testing.T) {
	now := time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)
	p := &person{UserID: "BT2023F001", FullName: "Asha Verma", Scratch: "x", note: "y", Stamps: Stamps{CreatedAt: now}}

	assert.Equal(t, []any{"BT2023F001", "Asha Verma", now}, RowValues(p))

	m := StructToMap(p)
	assert.Equal(t, map[string]any{
		"user_id":    "BT2023F001",
		"full_name":  "Asha Verma",
		"created_at": now,
	}, m)

	assert.Nil(t, RowValues(42))
	assert.Nil(t, StructToMap("x"))
}
