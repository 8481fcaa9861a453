package postgres

import (
	"reflect"
	"sync"
)

// rowMeta lists the db-tagged fields of a struct type in declaration order.
type rowMeta struct {
	columns []string
	index   [][]int
}

var rowMetaCache sync.Map // map[reflect.Type]*rowMeta

func metaOf(t reflect.Type) *rowMeta {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := rowMetaCache.Load(t); ok {
		return cached.(*rowMeta)
	}

	meta := &rowMeta{}
	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if f.Anonymous {
				continue
			}
			tag := f.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.columns = append(meta.columns, tag)
			meta.index = append(meta.index, f.Index)
		}
	}

	rowMetaCache.Store(t, meta)
	return meta
}

// Columns returns the db tags of T in field order, embedded structs included.
func Columns[T any]() []string {
	return metaOf(reflect.TypeFor[T]()).columns
}

// RowValues returns the db-tagged field values of v in Columns order,
// ready for COPY.
func RowValues(v any) []any {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	meta := metaOf(rv.Type())

	vals := make([]any, len(meta.index))
	for i, idx := range meta.index {
		vals[i] = rv.FieldByIndex(idx).Interface()
	}
	return vals
}

// StructToMap converts a struct to a column map for squirrel SetMap.
func StructToMap(v any) map[string]any {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	meta := metaOf(rv.Type())

	res := make(map[string]any, len(meta.columns))
	for i, col := range meta.columns {
		res[col] = rv.FieldByIndex(meta.index[i]).Interface()
	}
	return res
}
