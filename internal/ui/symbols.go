package ui

// Glyphs for status indicators.
const (
	SymbolSuccess  = "◉"
	SymbolFail     = "✕"
	SymbolWarning  = "⚠"
	SymbolPending  = "◇"
	SymbolProgress = "◆"
	SymbolComplete = "●"
	SymbolSkipped  = "⊖"
)
