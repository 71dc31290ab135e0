package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/model1"
)

// Styles holds the lipgloss styles of a rendered page.
type Styles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Border   lipgloss.Style
	Footer   lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Events   map[model1.ResEvent]lipgloss.Style
}

// DefaultStyles returns the standard page styles.
func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Header:   cell.Bold(true).Foreground(lipgloss.Color("6")),
		Cell:     cell,
		Border:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Footer:   lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Selected: cell.Reverse(true),
		Events: map[model1.ResEvent]lipgloss.Style{
			model1.EventAdd:     cell.Foreground(lipgloss.Color("4")),
			model1.EventUpdate:  cell.Foreground(lipgloss.Color("3")),
			model1.EventPending: cell.Foreground(lipgloss.Color("6")).Italic(true),
			model1.EventError:   cell.Foreground(lipgloss.Color("1")),
			model1.EventDelete:  cell.Foreground(lipgloss.Color("8")).Strikethrough(true),
		},
	}
}

// PlainStyles renders without colors or padding tweaks.
func PlainStyles() Styles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Header:   cell,
		Cell:     cell,
		Border:   lipgloss.NewStyle(),
		Footer:   lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle(),
		Selected: cell,
	}
}

// Page renders table snapshots for headless output.
type Page struct {
	Styles   Styles
	MaxWidth int
}

// NewPage returns a page renderer with default styles.
func NewPage() *Page {
	return &Page{Styles: DefaultStyles(), MaxWidth: 40}
}

// ColumnTitle returns the header label with sort and pin indicators.
func ColumnTitle(c model1.HeaderColumn, s model1.SortInfo) string {
	title := c.Label()
	if c.Pin != model1.PinNone {
		title = PinIndicator + title
	}
	if s.Column == c.Name {
		if s.Desc {
			return title + DescIndicator
		}
		return title + AscIndicator
	}
	return title
}

// Cells renders the snapshot rows, marking selected rows in a leading column.
func (p *Page) Cells(td *model1.TableData) [][]string {
	h := td.Header()
	rows := make([][]string, 0, td.RowCount())
	td.RowEvents().Range(func(_ int, re model1.RowEvent) bool {
		cells := make([]string, 0, len(h)+1)
		cells = append(cells, RowMark(td, re))
		for i, c := range h {
			cells = append(cells, Truncate(c.Render(re.Row.Fields.At(i)), p.MaxWidth))
		}
		rows = append(rows, cells)
		return true
	})
	return rows
}

// RowMark returns the mark column text of a row: error, pending commit or
// selected.
func RowMark(td *model1.TableData, re model1.RowEvent) string {
	switch {
	case re.Kind == model1.EventError:
		return ErrorMark
	case re.Kind == model1.EventPending:
		return PendingMark
	case td.IsSelected(re.Row.ID):
		return SelectedMark
	default:
		return Blank
	}
}

// Footer describes the page window, filter and selection.
func Footer(td *model1.TableData) string {
	pi := td.Page()
	parts := []string{}
	switch {
	case pi.Count == 0:
		parts = append(parts, "no rows")
	default:
		last := pi.Offset + td.RowCount()
		parts = append(parts, fmt.Sprintf("%d-%d of %d", min(pi.Offset+1, last), last, pi.Count))
	}
	if f := td.Filter(); f != "" {
		parts = append(parts, fmt.Sprintf("filter %q", f))
	}
	if n := len(td.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	return strings.Join(parts, " | ")
}

// Render writes one table snapshot.
func (p *Page) Render(w io.Writer, td *model1.TableData) error {
	h := td.Header()
	headers := make([]string, 0, len(h)+1)
	headers = append(headers, Blank)
	for _, c := range h {
		headers = append(headers, ColumnTitle(c, td.Sort()))
	}

	events := make([]model1.RowEvent, 0, td.RowCount())
	td.RowEvents().Range(func(_ int, re model1.RowEvent) bool {
		events = append(events, re)
		return true
	})

	st := p.Styles
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers(headers...).
		Rows(p.Cells(td)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = st.Header
			case row < 0 || row >= len(events):
				s = st.Cell
			case td.IsSelected(events[row].Row.ID):
				s = st.Selected
			default:
				s = st.Cell
				if es, ok := st.Events[events[row].Kind]; ok {
					s = es
				}
			}
			if col > 0 && col-1 < len(h) && h[col-1].Align == tview.AlignRight {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, st.Footer.Render(Footer(td))); err != nil {
		return err
	}
	if td.HasError() {
		if _, err := fmt.Fprintln(w, st.Error.Render("error: "+td.Error())); err != nil {
			return err
		}
	}

	return nil
}
