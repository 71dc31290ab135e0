// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/export"
	"github.com/erptab/erptab/internal/model"
	"github.com/erptab/erptab/internal/model1"
)

const (
	actionDelete = "delete"
	actionExport = "export"

	exportTimeout = 2 * time.Minute
)

// ErrReadOnly is returned when a write is attempted on a read-only tenant.
var ErrReadOnly = errors.New("tenant is read-only")

// builtinActions returns the delete and export actions in both scopes.
func (b *Browser) builtinActions() []model.Action {
	del := func(ctx context.Context, rows model1.Rows) error {
		if b.readOnly {
			return ErrReadOnly
		}
		n, ok := b.source.(dao.Nuker)
		if !ok {
			return fmt.Errorf("%s does not support deletes", b.spec.Name)
		}
		return n.Delete(ctx, rows.IDs())
	}
	noDelete := func(model1.Rows) bool {
		_, ok := b.source.(dao.Nuker)
		return b.readOnly || !ok
	}
	exp := func(ctx context.Context, rows model1.Rows) error {
		return b.enqueueExport(ctx, rows)
	}

	aa := make([]model.Action, 0, 4)
	for _, scope := range []model.ActionScope{model.ScopeBulk, model.ScopeRow} {
		aa = append(aa,
			model.Action{
				Name:        actionDelete,
				Description: "Delete rows",
				Scope:       scope,
				Dangerous:   true,
				Refresh:     true,
				Disabled:    noDelete,
				Execute:     del,
			},
			model.Action{
				Name:        actionExport,
				Description: "Export rows to CSV",
				Scope:       scope,
				Execute:     exp,
			},
		)
	}

	return aa
}

// enqueueExport hands rows to the export queue.
func (b *Browser) enqueueExport(ctx context.Context, rows model1.Rows) error {
	enc, err := export.ParseEncoding(b.app.cfg.Erptab.Export.Encoding)
	if err != nil {
		return err
	}
	req := export.Request{
		Table:    b.spec.Name,
		Header:   b.spec.Header,
		Rows:     rows,
		Encoding: enc,
	}
	_, err = b.app.queues.Enqueue(ctx, export.QueueName, req)

	return err
}
