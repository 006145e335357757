// Package sqladapter is the relational-database external collaborator
// spec.md §6 describes: a thin, driver-agnostic wrapper over stdlib
// database/sql plus a MaterializeTable helper that infers a single
// table from a uniform array-of-objects [value.Value].
//
// No SQL driver appears anywhere in the retrieved example pack to
// ground a specific vendor choice (Postgres, SQLite, MySQL...), so this
// is written directly against database/sql and accepts any driver name
// the caller has already registered with sql.Register -- the adapter
// itself imports no driver (see DESIGN.md).
package sqladapter

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/value"
)

// Adapter wraps a *sql.DB opened against a caller-registered driver.
type Adapter struct {
	db *sql.DB
}

// Open opens a database handle using driverName (which must already be
// registered via sql.Register, typically by a blank import of a driver
// package in the caller's main) and dataSourceName.
func Open(driverName, dataSourceName string) (*Adapter, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "opening %s database: %v", driverName, err)
	}

	return &Adapter{db: db}, nil
}

// Close releases the underlying database handle.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Exec runs a statement that doesn't return rows (INSERT/UPDATE/DDL).
func (a *Adapter) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "executing statement: %v", err)
	}

	return res, nil
}

// Query runs a SELECT and returns every row as an Array of Objects,
// column name to cell value, in column order.
func (a *Adapter) Query(ctx context.Context, query string, args ...any) (*value.Value, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "querying: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "reading columns: %v", err)
	}

	out := value.NewArray()

	scanTargets := make([]any, len(cols))
	scanValues := make([]any, len(cols))

	for i := range scanTargets {
		scanTargets[i] = &scanValues[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "scanning row: %v", err)
		}

		row := value.NewObject()

		for i, col := range cols {
			cell, err := valueFromSQL(scanValues[i])
			if err != nil {
				return nil, err
			}

			if err := row.Set(col, cell); err != nil {
				return nil, err
			}
		}

		if err := out.Append(row); err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, jsonerr.NewNonPositional(jsonerr.IOFailure, "iterating rows: %v", err)
	}

	return out, nil
}

func valueFromSQL(raw any) (*value.Value, error) {
	switch v := raw.(type) {
	case nil:
		return value.NewNull(), nil
	case bool:
		return value.NewBool(v), nil
	case int64:
		return value.NewNumber(float64(v))
	case float64:
		return value.NewNumber(v)
	case []byte:
		return value.NewString(string(v))
	case string:
		return value.NewString(v)
	default:
		return value.NewString(fmt.Sprintf("%v", v))
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sqlKeywords is the identifier denylist MaterializeTable checks column
// and table names against, matching spec.md §6's validation rule.
var sqlKeywords = map[string]bool{
	"select": true, "insert": true, "update": true, "delete": true,
	"drop": true, "table": true, "from": true, "where": true,
	"join": true, "union": true, "alter": true, "create": true,
	"grant": true, "revoke": true, "exec": true, "execute": true,
}

func validIdentifier(name string) bool {
	return identifierPattern.MatchString(name) && !sqlKeywords[strings.ToLower(name)]
}

// MaterializeTable creates tableName (dropping it again if any insert
// fails, to avoid leaving a partially populated table) and
// inserts every element of rows, which must be an Array of uniform
// Objects holding only scalar fields. Column names and tableName are
// validated against an identifier pattern and a SQL-keyword denylist
// before being interpolated into DDL; every value is bound through a
// parameterized placeholder, never interpolated.
func (a *Adapter) MaterializeTable(ctx context.Context, tableName string, rows *value.Value) error {
	if !validIdentifier(tableName) {
		return jsonerr.NewNonPositional(jsonerr.InvalidType, "invalid table name %q", tableName)
	}

	if rows.Type() != value.Array {
		return jsonerr.NewNonPositional(jsonerr.ConversionFailed, "MaterializeTable requires an array, got %s", rows.Type())
	}

	elems, err := rows.Elements()
	if err != nil {
		return err
	}

	if len(elems) == 0 {
		return jsonerr.NewNonPositional(jsonerr.ConversionFailed, "MaterializeTable requires at least one row to infer columns")
	}

	columns, err := elems[0].Keys()
	if err != nil {
		return err
	}

	for _, col := range columns {
		if !validIdentifier(col) {
			return jsonerr.NewNonPositional(jsonerr.InvalidType, "invalid column name %q", col)
		}
	}

	if err := a.createTable(ctx, tableName, columns, elems[0]); err != nil {
		return err
	}

	for i, row := range elems {
		if err := a.insertRow(ctx, tableName, columns, row); err != nil {
			_, _ = a.db.ExecContext(ctx, "DROP TABLE "+tableName)

			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	return nil
}

func (a *Adapter) createTable(ctx context.Context, tableName string, columns []string, first *value.Value) error {
	cols := make([]string, 0, len(columns)+1)
	cols = append(cols, "id INTEGER PRIMARY KEY")

	for _, col := range columns {
		cell, ok, err := first.Get(col)
		if err != nil {
			return err
		}

		cols = append(cols, col+" "+sqlColumnType(cell, ok))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", tableName, strings.Join(cols, ", "))
	if _, err := a.Exec(ctx, ddl); err != nil {
		return err
	}

	return nil
}

// sqlColumnType maps a sample cell's Value type to a column DDL type:
// NUMBER->REAL, BOOL->INTEGER, everything else (including a missing or
// Null cell)->TEXT.
func sqlColumnType(cell *value.Value, ok bool) string {
	if !ok || cell == nil {
		return "TEXT"
	}

	switch cell.Type() {
	case value.Number:
		return "REAL"
	case value.Bool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func (a *Adapter) insertRow(ctx context.Context, tableName string, columns []string, row *value.Value) error {
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))

	for i, col := range columns {
		placeholders[i] = "?"

		cell, ok, err := row.Get(col)
		if err != nil {
			return err
		}

		if !ok {
			args[i] = nil

			continue
		}

		bound, err := sqlBindValue(cell)
		if err != nil {
			return err
		}

		args[i] = bound
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err := a.Exec(ctx, query, args...)

	return err
}

func sqlBindValue(v *value.Value) (any, error) {
	switch v.Type() {
	case value.Null:
		return nil, nil
	case value.Bool:
		return v.Bool()
	case value.Number:
		return v.Number()
	case value.String:
		return v.StringValue()
	default:
		return nil, jsonerr.NewNonPositional(jsonerr.ConversionFailed, "MaterializeTable requires scalar fields, got %s", v.Type())
	}
}
