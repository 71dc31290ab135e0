// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

// Package export writes table rows out as CSV to local or S3 sinks.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/model1"
)

// Encoding names the output character encoding.
type Encoding int

const (
	// EncodingUTF8 plain UTF-8.
	EncodingUTF8 Encoding = iota

	// EncodingUTF8BOM UTF-8 with a byte order mark, for spreadsheet imports.
	EncodingUTF8BOM

	// EncodingShiftJIS Shift_JIS for legacy ledger systems.
	EncodingShiftJIS
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseEncoding converts a config encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "utf8bom", "utf-8-bom", "bom":
		return EncodingUTF8BOM, nil
	case "sjis", "shift_jis", "shift-jis", "shiftjis":
		return EncodingShiftJIS, nil
	default:
		return EncodingUTF8, fmt.Errorf("unknown encoding %q", s)
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf8bom"
	case EncodingShiftJIS:
		return "shift_jis"
	default:
		return "utf8"
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func (e Encoding) writer(w io.Writer) (io.WriteCloser, error) {
	switch e {
	case EncodingShiftJIS:
		enc := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
		return transform.NewWriter(w, enc), nil
	case EncodingUTF8BOM:
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, err
		}
	}
	return nopCloser{w}, nil
}

// WriteCSV writes a header line of column labels then one record per row.
// Rows use the declared header layout.
func WriteCSV(w io.Writer, h model1.Header, rows model1.Rows, enc Encoding) error {
	out, err := enc.writer(w)
	if err != nil {
		return fmt.Errorf("csv encoding: %w", err)
	}

	cw := csv.NewWriter(out)
	labels := make([]string, 0, len(h))
	for _, c := range h {
		labels = append(labels, c.Label())
	}
	if err := cw.Write(labels); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	record := make([]string, len(h))
	for _, r := range rows {
		for i, c := range h {
			v := c.Value(r, i)
			if v == nil {
				record[i] = ""
				continue
			}
			record[i] = c.Render(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}

	return out.Close()
}

// CollectAll pages through every row matching q.
func CollectAll(ctx context.Context, l dao.Lister, q dao.Query, pageSize int) (model1.Rows, error) {
	if pageSize <= 0 {
		pageSize = 500
	}
	q.Offset, q.Limit = 0, pageSize

	var rows model1.Rows
	for {
		p, err := l.List(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("collect rows at %d: %w", q.Offset, err)
		}
		rows = append(rows, p.Rows...)
		q.Offset += pageSize
		if len(p.Rows) == 0 || q.Offset >= p.Count {
			return rows, nil
		}
	}
}
