package config

import "github.com/erptab/erptab/internal/config/data"

// DefaultTables declares the demo ledger shipped with a fresh install.
func DefaultTables() []data.TableSpec {
	return []data.TableSpec{
		{
			Name:      "items",
			IDColumn:  "code",
			IDPrefix:  "IT",
			IDPadding: 5,
			Columns: []data.ColumnSpec{
				{Key: "code", Title: "CODE", Sortable: true, Pin: "left"},
				{Key: "name", Title: "NAME", Sortable: true, Editable: true},
				{Key: "category", Title: "CATEGORY", Sortable: true, Editable: true},
				{Key: "qty", Title: "QTY", Kind: "int", Sortable: true, Editable: true},
				{Key: "price", Title: "PRICE", Kind: "float", Sortable: true, Editable: true},
				{Key: "active", Title: "ACTIVE", Kind: "bool", Editable: true},
				{Key: "note", Title: "NOTE", Editable: true, Hidden: true},
			},
		},
		{
			Name:      "partners",
			IDColumn:  "code",
			IDPrefix:  "BP",
			IDPadding: 4,
			Columns: []data.ColumnSpec{
				{Key: "code", Title: "CODE", Sortable: true, Pin: "left"},
				{Key: "name", Title: "NAME", Sortable: true, Editable: true},
				{Key: "city", Title: "CITY", Sortable: true, Editable: true},
				{Key: "credit", Title: "CREDIT", Kind: "float", Sortable: true, Editable: true},
				{Key: "blocked", Title: "BLOCKED", Kind: "bool", Editable: true},
			},
		},
	}
}
