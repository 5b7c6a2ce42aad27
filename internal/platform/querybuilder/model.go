package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Columns lists the db-tagged columns of a struct type in field order.
func Columns(model any) []string {
	fields, err := dbFields(model)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.column)
	}
	return out
}

// InsertModel builds an INSERT from the db-tagged fields of model, leaving
// out the skip columns.
func InsertModel(table string, model any, skip ...string) (string, []any, error) {
	fields, err := dbFields(model, skip...)
	if err != nil {
		return "", nil, err
	}

	b := InsertInto(table)
	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
		vals = append(vals, f.value)
	}
	return b.Columns(cols...).Values(vals...).ToSQL()
}

// SetModel assigns every db-tagged field of model except the skip columns.
func (b *UpdateBuilder) SetModel(model any, skip ...string) (*UpdateBuilder, error) {
	fields, err := dbFields(model, skip...)
	if err != nil {
		return b, err
	}
	for _, f := range fields {
		b.Set(f.column, f.value)
	}
	return b, nil
}

type dbField struct {
	column string
	value  any
}

func dbFields(model any, skip ...string) ([]dbField, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	out := make([]dbField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" || slices.Contains(skip, col) {
			continue
		}
		out = append(out, dbField{column: col, value: value.Field(i).Interface()})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("model has no db columns")
	}
	return out, nil
}
