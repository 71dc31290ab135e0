// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/erptab/erptab/internal/ui"
)

// Built-in commands.
const (
	cmdTenant = "tenant"
	cmdTable  = "table"
	cmdQuit   = "quit"
	cmdHelp   = "help"
	cmdExport = "export"
)

var builtinCommands = []string{cmdTenant, cmdTable, cmdQuit, cmdHelp, cmdExport}

// Command handles user command interpretation and execution.
type Command struct {
	app *App
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App) *Command {
	return &Command{app: app}
}

// Names returns every command, table and alias the command bar completes.
func (c *Command) Names() []string {
	seen := make(map[string]struct{})
	var nn []string
	add := func(s string) {
		if _, ok := seen[s]; ok || s == "" {
			return
		}
		seen[s] = struct{}{}
		nn = append(nn, s)
	}
	for _, s := range builtinCommands {
		add(s)
	}
	for _, s := range c.app.cfg.Erptab.TableNames() {
		add(s)
	}
	for k := range c.app.aliases.All() {
		add(k)
	}
	sort.Strings(nn)

	return nn
}

// Run parses and executes a command.
func (c *Command) Run(cmd string) error {
	name, args := parseCommand(cmd)
	if name == "" {
		return c.tableCmd(c.app.cfg.Erptab.ActiveTable())
	}
	name = c.app.aliases.Get(name)

	switch name {
	case cmdTenant:
		if len(args) == 0 {
			return c.tenantView()
		}
		return c.tenantCmd(args[0])
	case cmdTable:
		if len(args) == 0 {
			return c.tableView()
		}
		return c.tableCmd(args[0])
	case cmdQuit:
		c.app.Stop()
		return nil
	case cmdHelp:
		c.app.showHelp()
		return nil
	case cmdExport:
		b := c.app.Browser()
		if b == nil {
			return fmt.Errorf("no table to export")
		}
		b.exportCmd(nil)
		return nil
	default:
		return c.tableCmd(name)
	}
}

// parseCommand splits a command bar entry into a command and its
// arguments.
func parseCommand(cmd string) (string, []string) {
	cmd = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cmd), ":"))
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "", nil
	}

	return parts[0], parts[1:]
}

func (c *Command) tableCmd(name string) error {
	if _, ok := c.app.cfg.Erptab.TableSpec(name); !ok {
		return fmt.Errorf("unknown command or table %q", name)
	}
	if err := c.app.ShowTable(name); err != nil {
		return err
	}
	c.app.flash.Infof("Viewing %s...", name)

	return nil
}

func (c *Command) tenantCmd(name string) error {
	if name == c.app.factory.Tenant() {
		c.app.flash.Infof("Already using tenant: %s", name)
		return nil
	}
	if err := c.app.SwitchTenant(name); err != nil {
		return err
	}
	c.app.flash.Infof("Switched to tenant: %s", name)

	return nil
}

func (c *Command) tenantView() error {
	current := c.app.factory.Tenant()
	tt := c.app.cfg.Tenants()
	items := make([]PickerItem, 0, len(tt))
	for _, t := range tt {
		desc := t.Driver
		if t.ReadOnly {
			desc += " (read-only)"
		}
		items = append(items, PickerItem{Name: t.Name, Description: desc, Active: t.Name == current})
	}

	return c.pick(cmdTenant, "Tenants", items, c.tenantCmd)
}

func (c *Command) tableView() error {
	var current string
	if b := c.app.Browser(); b != nil {
		current = b.Name()
	}
	names := c.app.cfg.Erptab.TableNames()
	items := make([]PickerItem, 0, len(names))
	for _, n := range names {
		spec, _ := c.app.cfg.Erptab.TableSpec(n)
		items = append(items, PickerItem{Name: n, Description: spec.Table, Active: n == current})
	}

	return c.pick(cmdTable, "Tables", items, c.tableCmd)
}

// pick pushes a picker running fn on the chosen item.
func (c *Command) pick(name, title string, items []PickerItem, fn func(string) error) error {
	p := NewPicker(name, title, items)
	p.SetSelectFn(func(it PickerItem) {
		c.app.Pop()
		if err := fn(it.Name); err != nil {
			c.app.flash.Err(err)
		}
	})
	p.SetCancelFn(c.app.Pop)
	if err := p.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize %s view: %w", name, err)
	}
	c.app.Push(p)

	return nil
}

var _ ui.Component = (*Picker)(nil)
