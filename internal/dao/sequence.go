// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erptab/erptab/internal/model1"
)

const schema = `
CREATE TABLE IF NOT EXISTS erptab_sequences (
	name    TEXT PRIMARY KEY,
	last_no INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS erptab_audit (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	table_name  TEXT NOT NULL,
	row_id      TEXT NOT NULL,
	column_name TEXT NOT NULL,
	patch       TEXT NOT NULL,
	changed_at  TEXT NOT NULL
);`

// EnsureSchema creates the bookkeeping tables used by sql sources.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// NextSequenceInTx bumps the named sequence and returns a formatted code
// such as prefix0007.
func NextSequenceInTx(ctx context.Context, tx *sqlx.Tx, name, prefix string, padding int) (string, error) {
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO erptab_sequences (name, last_no) VALUES (?, 0) ON CONFLICT(name) DO NOTHING`), name); err != nil {
		return "", fmt.Errorf("init sequence %q: %w", name, err)
	}

	var lastNo int
	if err := tx.GetContext(ctx, &lastNo, tx.Rebind(`SELECT last_no FROM erptab_sequences WHERE name = ?`), name); err != nil {
		return "", fmt.Errorf("get sequence %q: %w", name, err)
	}

	newNo := lastNo + 1
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE erptab_sequences SET last_no = ? WHERE name = ?`), newNo, name); err != nil {
		return "", fmt.Errorf("update sequence %q: %w", name, err)
	}

	return fmt.Sprintf("%s%0*d", prefix, padding, newNo), nil
}

// SeedSequenceFromMax aligns a sequence with the highest prefixed code
// already stored in table.column.
func SeedSequenceFromMax(ctx context.Context, tx *sqlx.Tx, name, table, column, prefix string) error {
	if !identRX.MatchString(table) || !identRX.MatchString(column) {
		return fmt.Errorf("invalid identifier %s.%s", table, column)
	}

	var maxCode sql.NullString
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIKE ? ORDER BY %s DESC LIMIT 1",
		quoteIdent(column), quoteIdent(table), quoteIdent(column), quoteIdent(column))
	err := tx.GetContext(ctx, &maxCode, tx.Rebind(q), prefix+"%")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("seed sequence %q: %w", name, err)
	}

	maxNum := 0
	if maxCode.Valid && strings.HasPrefix(maxCode.String, prefix) {
		maxNum, _ = strconv.Atoi(strings.TrimPrefix(maxCode.String, prefix))
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO erptab_sequences (name, last_no) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET last_no = excluded.last_no`),
		name, maxNum)
	if err != nil {
		return fmt.Errorf("seed sequence %q: %w", name, err)
	}
	return nil
}

func sqlType(k model1.Kind) string {
	switch k {
	case model1.KindInt, model1.KindBool:
		return "INTEGER"
	case model1.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// EnsureTable creates the storage table for spec when it is missing. The
// id column is the primary key; derived columns are not stored.
func EnsureTable(ctx context.Context, db *sqlx.DB, spec TableSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	cols := []string{quoteIdent(spec.IDColumn) + " TEXT PRIMARY KEY"}
	for _, c := range spec.Header {
		if c.Accessor != nil || c.Name == spec.IDColumn {
			continue
		}
		cols = append(cols, quoteIdent(c.Name)+" "+sqlType(c.Kind))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quoteIdent(spec.Table), strings.Join(cols, ",\n\t"))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", spec.Table, err)
	}

	return nil
}
