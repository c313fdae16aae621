package tui

const (
	// listWidth is the fixed width of the radix column.
	listWidth = 36
	// listOverheadLines represents header+message+spacer lines above the list.
	// Keep this in sync with the View layout.
	listOverheadLines = 4
	// listMinHeight enforces a minimum list height to avoid collapsing.
	listMinHeight = 3

	detailGap = 2
)
