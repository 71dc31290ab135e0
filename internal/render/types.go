package render

const (
	// Display values
	NAValue = "n/a"
	Blank   = ""

	// Markers
	SelectedMark  = "✔"
	PendingMark   = "…"
	ErrorMark     = "✘"
	AscIndicator  = "↑"
	DescIndicator = "↓"
	PinIndicator  = "^"
)
