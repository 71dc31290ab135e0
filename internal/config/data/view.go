package data

// TableView holds per table display preferences. It never affects the
// data a table fetches beyond page size and initial sort.
type TableView struct {
	Order  []string `yaml:"order,omitempty"`
	Hidden []string `yaml:"hidden,omitempty"`
	Left   []string `yaml:"pinLeft,omitempty"`
	Right  []string `yaml:"pinRight,omitempty"`
	Limit  int      `yaml:"limit,omitempty"`
	Sort   string   `yaml:"sort,omitempty"`
	Desc   bool     `yaml:"desc,omitempty"`
}

// NewTableView returns empty preferences.
func NewTableView() *TableView {
	return &TableView{}
}

// Validate drops nonsensical values.
func (v *TableView) Validate() {
	if v.Limit < 0 {
		v.Limit = 0
	}
	if v.Sort == "" {
		v.Desc = false
	}
}

// IsEmpty reports whether the view carries no preferences.
func (v *TableView) IsEmpty() bool {
	return len(v.Order) == 0 && len(v.Hidden) == 0 && len(v.Left) == 0 &&
		len(v.Right) == 0 && v.Limit == 0 && v.Sort == ""
}
