// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/model1"
)

// Editor errors
var (
	ErrEditorCancelled = errors.New("editor cancelled")
	ErrNoChanges       = errors.New("no changes detected")
)

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// CellChange is one column of a row to persist.
type CellChange struct {
	Column string
	Value  any
}

// RowEdit edits the editable columns of one row as JSON in an external
// editor.
type RowEdit struct {
	Table    string
	RowID    string
	Header   model1.Header
	Original []byte
	Draft    []byte
	TempFile string
	ErrorMsg string
}

// NewRowEdit captures the editable columns of a row.
func NewRowEdit(table string, h model1.Header, r model1.Row) (*RowEdit, error) {
	vals := make(map[string]any, len(h))
	for i, c := range h {
		if c.Editable {
			vals[c.Name] = c.Value(r, i)
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s has no editable columns", table)
	}
	raw, err := json.MarshalIndent(vals, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row: %w", err)
	}

	return &RowEdit{
		Table:    table,
		RowID:    r.ID,
		Header:   h,
		Original: raw,
	}, nil
}

// Start writes the row to a temp file, runs the editor with the TUI
// suspended and returns the edited document.
func (e *RowEdit) Start(app *tview.Application) ([]byte, error) {
	e.Cleanup()
	tmpFile, err := os.CreateTemp("", fmt.Sprintf("erptab-%s-*.json", e.Table))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	e.TempFile = tmpFile.Name()

	if _, err := tmpFile.Write(e.document()); err != nil {
		_ = tmpFile.Close()
		return nil, err
	}
	if err := tmpFile.Close(); err != nil {
		return nil, err
	}

	exitCode, err := e.spawnEditor(app)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	if exitCode != 0 {
		return nil, ErrEditorCancelled
	}

	content, err := os.ReadFile(e.TempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	return stripErrorComment(content), nil
}

func (e *RowEdit) document() []byte {
	var buf bytes.Buffer
	if e.ErrorMsg != "" {
		buf.WriteString("// ERROR: " + e.ErrorMsg + "\n")
		buf.WriteString("// Fix the issue below and save, or quit without saving to cancel.\n")
		buf.WriteString("// ---\n\n")
	}
	if e.Draft != nil {
		buf.Write(e.Draft)
	} else {
		buf.Write(e.Original)
	}
	buf.WriteString("\n")

	return buf.Bytes()
}

func (e *RowEdit) spawnEditor(app *tview.Application) (int, error) {
	var exitCode int
	suspended := app.Suspend(func() {
		cmd := exec.Command(getEditor(), e.TempFile)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				exitCode = 1
			}
		}
	})
	if !suspended {
		return 1, errors.New("failed to suspend application")
	}

	return exitCode, nil
}

// Changes diffs the edited document against the row and converts each
// changed column to its kind.
func (e *RowEdit) Changes(modified []byte) ([]CellChange, error) {
	var before, after map[string]any
	if err := json.Unmarshal(e.Original, &before); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(modified, &after); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	patch, err := jsondiff.Compare(before, after)
	if err != nil {
		return nil, fmt.Errorf("failed to diff row: %w", err)
	}
	if len(patch) == 0 {
		return nil, ErrNoChanges
	}

	cc := make([]CellChange, 0, len(patch))
	for _, op := range patch {
		key := pointerUnescaper.Replace(strings.TrimPrefix(op.Path, "/"))
		if i := strings.Index(key, "/"); i >= 0 {
			key = key[:i]
		}
		idx, ok := e.Header.IndexOf(key)
		if !ok || !e.Header[idx].Editable {
			return nil, fmt.Errorf("column %q is not editable", key)
		}
		v, err := columnValue(e.Header[idx].Kind, after[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		cc = append(cc, CellChange{Column: key, Value: v})
	}

	return cc, nil
}

// Cleanup removes the temporary file.
func (e *RowEdit) Cleanup() {
	if e.TempFile != "" {
		_ = os.Remove(e.TempFile)
		e.TempFile = ""
	}
}

// columnValue converts a decoded JSON value to a column kind.
func columnValue(kind model1.Kind, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return model1.ParseValue(kind, t)
	case map[string]any, []any:
		return nil, fmt.Errorf("unexpected %T value", v)
	default:
		return model1.ParseValue(kind, model1.FormatValue(t))
	}
}

// getEditor returns the editor command to use.
func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("vim"); err == nil {
		return "vim"
	}
	return "nano"
}

// stripErrorComment removes the error comment block from the top of content.
func stripErrorComment(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	start, seen := 0, false
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			if seen {
				start = i + 1
			}
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("//")) {
			seen, start = true, i+1
			continue
		}
		break
	}
	if !seen {
		return content
	}
	if start >= len(lines) {
		return nil
	}

	return bytes.Join(lines[start:], []byte("\n"))
}

// rowEditCmd edits the current row in the external editor, retrying with
// the error on top when a column fails to convert.
func (b *Browser) rowEditCmd(*tcell.EventKey) *tcell.EventKey {
	id := b.SelectedRowID()
	if id == "" {
		return nil
	}
	var row model1.Row
	for _, r := range b.engine.Rows() {
		if r.ID == id {
			row = r
			break
		}
	}
	if row.ID == "" {
		return nil
	}

	h := b.engine.Columns().Header()
	session, err := NewRowEdit(b.spec.Name, h, row)
	if err != nil {
		b.app.flash.Warn(err.Error())
		return nil
	}
	defer session.Cleanup()

	for {
		modified, err := session.Start(b.app.Application)
		if err != nil {
			b.reportEditorErr(err)
			return nil
		}
		changes, err := session.Changes(modified)
		if errors.Is(err, ErrNoChanges) {
			b.app.flash.Info("No changes detected")
			return nil
		}
		if err != nil {
			session.ErrorMsg = err.Error()
			session.Draft = modified
			continue
		}
		go b.persistRow(id, changes)
		return nil
	}
}

func (b *Browser) reportEditorErr(err error) {
	if errors.Is(err, ErrEditorCancelled) {
		b.app.flash.Info("Edit cancelled")
		return
	}
	b.app.flash.Errf("Edit failed: %v", err)
}

// persistRow writes each changed cell through the data source, then
// refetches the page.
func (b *Browser) persistRow(id string, changes []CellChange) {
	ctx, cancel := context.WithTimeout(b.app.ctx, b.app.cfg.Erptab.FetchTimeoutDuration())
	defer cancel()

	for _, c := range changes {
		if err := b.source.PersistCell(ctx, id, c.Column, c.Value); err != nil {
			b.log.Warn("row edit rejected", zap.String("row", id), zap.String("column", c.Column), zap.Error(err))
			b.app.flash.Errf("Could not save %s of %s: %v", c.Column, id, err)
			break
		}
	}
	if err := b.engine.Refresh(ctx); err == nil {
		b.app.flash.Infof("Row %s updated", id)
	}
}
