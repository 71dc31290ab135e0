package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/config"
	"github.com/erptab/erptab/internal/dao"
)

// demoRows fills the default tables of a fresh local ledger.
var demoRows = map[string][]map[string]any{
	"items": {
		{"name": "Hex bolt M8", "category": "fasteners", "qty": 1200, "price": 0.12, "active": true},
		{"name": "Hex nut M8", "category": "fasteners", "qty": 3400, "price": 0.04, "active": true},
		{"name": "Flat washer 8mm", "category": "fasteners", "qty": 5000, "price": 0.02, "active": true},
		{"name": "Hydraulic hose 1m", "category": "hydraulics", "qty": 42, "price": 18.5, "active": true},
		{"name": "Pressure gauge", "category": "hydraulics", "qty": 7, "price": 64.9, "active": false, "note": "discontinued"},
		{"name": "Bearing 6204", "category": "bearings", "qty": 310, "price": 3.75, "active": true},
		{"name": "Bearing 6205", "category": "bearings", "qty": 0, "price": 4.1, "active": true, "note": "on order"},
		{"name": "V-belt A42", "category": "transmission", "qty": 55, "price": 9.8, "active": true},
	},
	"partners": {
		{"name": "Acme Industrial", "city": "Osaka", "credit": 250000, "blocked": false},
		{"name": "Northwind Supply", "city": "Seattle", "credit": 120000, "blocked": false},
		{"name": "Globex Metals", "city": "Hamburg", "credit": 75000, "blocked": true},
		{"name": "Initech Parts", "city": "Austin", "credit": 40000, "blocked": false},
	},
}

// prepareTables creates missing tables on the active tenant and seeds the
// demo rows into empty default tables.
func prepareTables(ctx context.Context, cfg *config.Config, f *dao.Factory, log *zap.Logger) error {
	db, t, err := f.DB(ctx)
	if err != nil {
		return err
	}
	if t.ReadOnly {
		return nil
	}

	for _, name := range cfg.Erptab.TableNames() {
		spec, err := cfg.Erptab.DAOSpec(name)
		if err != nil {
			return err
		}
		if err := dao.EnsureTable(ctx, db, spec); err != nil {
			return err
		}
		rows, ok := demoRows[name]
		if !ok {
			continue
		}
		src, err := f.Source(ctx, spec)
		if err != nil {
			return err
		}
		page, err := src.List(ctx, dao.Query{Limit: 1})
		if err != nil {
			return err
		}
		if page.Count > 0 {
			continue
		}
		if err := seed(ctx, src, rows); err != nil {
			log.Warn("demo seed skipped", zap.String("table", name), zap.Error(err))
			continue
		}
		log.Info("seeded demo rows", zap.String("table", name), zap.Int("rows", len(rows)))
	}

	return nil
}

func seed(ctx context.Context, c dao.Creator, rows []map[string]any) error {
	for _, r := range rows {
		if _, err := c.Create(ctx, r); err != nil {
			return fmt.Errorf("create row: %w", err)
		}
	}
	return nil
}
