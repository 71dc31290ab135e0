// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/model1"
)

var identRX = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TableSpec binds a logical table to its SQL storage.
type TableSpec struct {
	Name      string
	Table     string
	IDColumn  string
	IDPrefix  string
	IDPadding int
	Header    model1.Header
}

// Validate checks identifiers so they can be spliced into SQL.
func (t TableSpec) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table spec has no name")
	}
	if !identRX.MatchString(t.Table) {
		return fmt.Errorf("invalid table identifier %q", t.Table)
	}
	if !identRX.MatchString(t.IDColumn) {
		return fmt.Errorf("invalid id column %q", t.IDColumn)
	}
	if err := t.Header.Validate(); err != nil {
		return fmt.Errorf("table %q: %w", t.Name, err)
	}
	for _, c := range t.Header {
		if c.Accessor == nil && !identRX.MatchString(c.Name) {
			return fmt.Errorf("table %q: invalid column identifier %q", t.Name, c.Name)
		}
	}
	return nil
}

// SQLOption configures a SQLSource.
type SQLOption func(*SQLSource)

// WithSQLLogger sets the logger.
func WithSQLLogger(l *zap.Logger) SQLOption {
	return func(s *SQLSource) {
		s.log = l
	}
}

// WithAudit records a JSON patch for each persisted edit.
func WithAudit(on bool) SQLOption {
	return func(s *SQLSource) {
		s.audit = on
	}
}

// WithSQLReadOnly refuses all writes.
func WithSQLReadOnly(on bool) SQLOption {
	return func(s *SQLSource) {
		s.readOnly = on
	}
}

// SQLSource serves a table from a relational database.
type SQLSource struct {
	db       *sqlx.DB
	spec     TableSpec
	stored   []int // header indexes backed by a SQL column
	log      *zap.Logger
	audit    bool
	readOnly bool
}

// NewSQLSource returns a source for the given table.
func NewSQLSource(db *sqlx.DB, spec TableSpec, opts ...SQLOption) (*SQLSource, error) {
	if db == nil {
		return nil, fmt.Errorf("no database connection")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	s := &SQLSource{
		db:   db,
		spec: spec,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, c := range spec.Header {
		if c.Accessor == nil && c.Name != spec.IDColumn {
			s.stored = append(s.stored, i)
		}
	}

	return s, nil
}

// Spec returns the table spec.
func (s *SQLSource) Spec() TableSpec {
	return s.spec
}

// List runs the count and page queries in one transaction.
func (s *SQLSource) List(ctx context.Context, q Query) (Page, error) {
	where, args := s.where(q.Filter)
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Page{}, fmt.Errorf("begin list %s: %w", s.spec.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	countQ := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quoteIdent(s.spec.Table), where)
	if err := tx.GetContext(ctx, &count, tx.Rebind(countQ), args...); err != nil {
		return Page{}, fmt.Errorf("count %s: %w", s.spec.Name, err)
	}

	listQ := fmt.Sprintf("SELECT %s FROM %s%s %s LIMIT ? OFFSET ?",
		s.selectList(), quoteIdent(s.spec.Table), where, s.order(q.Sort))
	s.log.Debug("list",
		zap.String("table", s.spec.Name),
		zap.String("query", listQ),
		zap.Int("offset", q.Offset),
		zap.Int("limit", q.Limit))

	rows, err := tx.QueryxContext(ctx, tx.Rebind(listQ), append(args, limit, max(q.Offset, 0))...)
	if err != nil {
		return Page{}, fmt.Errorf("list %s: %w", s.spec.Name, err)
	}
	defer rows.Close()

	page := Page{Count: count}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return Page{}, fmt.Errorf("scan %s: %w", s.spec.Name, err)
		}
		page.Rows = append(page.Rows, s.toRow(vals))
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("list %s: %w", s.spec.Name, err)
	}

	return page, nil
}

func (s *SQLSource) toRow(vals []any) model1.Row {
	row := model1.NewRow(len(s.spec.Header))
	row.ID = model1.FormatValue(normalize(vals[0]))
	if idx, ok := s.spec.Header.IndexOf(s.spec.IDColumn); ok {
		row.Fields[idx] = row.ID
	}
	for i, hi := range s.stored {
		row.Fields[hi] = coerce(s.spec.Header[hi].Kind, normalize(vals[i+1]))
	}
	return row
}

func (s *SQLSource) selectList() string {
	cols := make([]string, 0, len(s.stored)+1)
	cols = append(cols, quoteIdent(s.spec.IDColumn))
	for _, i := range s.stored {
		cols = append(cols, quoteIdent(s.spec.Header[i].Name))
	}
	return strings.Join(cols, ", ")
}

func (s *SQLSource) where(f Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	f = f.Resolve(s.isStored)
	if text := strings.TrimSpace(f.Text); text != "" {
		var ors []string
		for _, i := range s.stored {
			if s.spec.Header[i].Kind != model1.KindText {
				continue
			}
			ors = append(ors, fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, quoteIdent(s.spec.Header[i].Name)))
			args = append(args, likePattern(text))
		}
		ors = append(ors, fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, quoteIdent(s.spec.IDColumn)))
		args = append(args, likePattern(text))
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	for k, v := range f.Columns {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`CAST(%s AS TEXT) LIKE ? ESCAPE '\'`, quoteIdent(k)))
		args = append(args, likePattern(v))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *SQLSource) order(o SortOrder) string {
	id := quoteIdent(s.spec.IDColumn)
	idx, ok := s.spec.Header.IndexOf(o.Column)
	if !ok || !s.spec.Header[idx].Sortable || !s.isStored(o.Column) {
		return "ORDER BY " + id + " ASC"
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, %s ASC", quoteIdent(o.Column), dir, id)
}

func (s *SQLSource) isStored(col string) bool {
	for _, i := range s.stored {
		if s.spec.Header[i].Name == col {
			return true
		}
	}
	return col == s.spec.IDColumn
}

// PersistCell updates one cell, recording an audit patch when enabled.
func (s *SQLSource) PersistCell(ctx context.Context, rowID, column string, value any) error {
	if s.readOnly {
		return ErrReadOnly
	}
	idx, ok := s.spec.Header.IndexOf(column)
	if !ok || column == s.spec.IDColumn || !s.isStored(column) {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if !s.spec.Header[idx].Editable {
		return fmt.Errorf("column %q is not editable", column)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin persist %s: %w", s.spec.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	var before map[string]any
	if s.audit {
		if before, err = s.snapshotRow(ctx, tx, rowID); err != nil {
			return err
		}
	}

	q := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		quoteIdent(s.spec.Table), quoteIdent(column), quoteIdent(s.spec.IDColumn))
	res, err := tx.ExecContext(ctx, tx.Rebind(q), value, rowID)
	if err != nil {
		return fmt.Errorf("update %s.%s: %w", s.spec.Name, column, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	if s.audit {
		after, err := s.snapshotRow(ctx, tx, rowID)
		if err != nil {
			return err
		}
		if err := s.recordAudit(ctx, tx, rowID, column, before, after); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s.%s: %w", s.spec.Name, column, err)
	}
	s.log.Debug("persisted cell",
		zap.String("table", s.spec.Name),
		zap.String("row", rowID),
		zap.String("column", column))

	return nil
}

func (s *SQLSource) snapshotRow(ctx context.Context, tx *sqlx.Tx, rowID string) (map[string]any, error) {
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", quoteIdent(s.spec.Table), quoteIdent(s.spec.IDColumn))
	row := make(map[string]any)
	if err := tx.QueryRowxContext(ctx, tx.Rebind(q), rowID).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
		}
		return nil, fmt.Errorf("snapshot %s/%s: %w", s.spec.Name, rowID, err)
	}
	for k, v := range row {
		row[k] = normalize(v)
	}
	return row, nil
}

func (s *SQLSource) recordAudit(ctx context.Context, tx *sqlx.Tx, rowID, column string, before, after map[string]any) error {
	patch, err := jsondiff.Compare(before, after)
	if err != nil {
		return fmt.Errorf("diff %s/%s: %w", s.spec.Name, rowID, err)
	}
	if len(patch) == 0 {
		return nil
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode patch %s/%s: %w", s.spec.Name, rowID, err)
	}
	const q = `INSERT INTO erptab_audit (table_name, row_id, column_name, patch, changed_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), s.spec.Name, rowID, column, string(raw), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("record audit %s/%s: %w", s.spec.Name, rowID, err)
	}
	return nil
}

// Delete removes rows by identity.
func (s *SQLSource) Delete(ctx context.Context, ids []string) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(fmt.Sprintf("DELETE FROM %s WHERE %s IN (?)",
		quoteIdent(s.spec.Table), quoteIdent(s.spec.IDColumn)), ids)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.spec.Name, err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("delete %s: %w", s.spec.Name, err)
	}
	return nil
}

// Create inserts a row. Identities come from the table sequence when the
// spec carries an id prefix, otherwise from values.
func (s *SQLSource) Create(ctx context.Context, values map[string]any) (string, error) {
	if s.readOnly {
		return "", ErrReadOnly
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin create %s: %w", s.spec.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	if s.spec.IDPrefix != "" {
		if id, err = NextSequenceInTx(ctx, tx, s.spec.Name, s.spec.IDPrefix, s.spec.IDPadding); err != nil {
			return "", err
		}
	} else {
		v, ok := values[s.spec.IDColumn]
		if !ok || v == nil {
			return "", fmt.Errorf("create %s: missing %s", s.spec.Name, s.spec.IDColumn)
		}
		id = model1.FormatValue(v)
	}

	cols := []string{quoteIdent(s.spec.IDColumn)}
	args := []any{id}
	for _, i := range s.stored {
		name := s.spec.Header[i].Name
		if v, ok := values[name]; ok {
			cols = append(cols, quoteIdent(name))
			args = append(args, v)
		}
	}
	for k := range values {
		if k != s.spec.IDColumn && !s.isStored(k) {
			return "", fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.spec.Table), strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
		return "", fmt.Errorf("insert %s: %w", s.spec.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit create %s: %w", s.spec.Name, err)
	}

	return id, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

func coerce(kind model1.Kind, v any) any {
	if v == nil {
		return nil
	}
	switch kind {
	case model1.KindBool:
		switch t := v.(type) {
		case int64:
			return t != 0
		case string:
			b, err := model1.ParseValue(model1.KindBool, t)
			if err == nil {
				return b
			}
		}
	case model1.KindFloat:
		if n, ok := v.(int64); ok {
			return float64(n)
		}
	case model1.KindInt:
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			return int64(f)
		}
	}
	return v
}
