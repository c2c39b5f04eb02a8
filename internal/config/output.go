package config

// OutputConfig holds settings related to report formatting.
type OutputConfig struct {
	// JSONFormat enables JSON output instead of text
	JSONFormat bool

	// ShowMoves includes the numbered move history
	ShowMoves bool

	// ShowFEN includes the final position as FEN
	ShowFEN bool

	// ShowSignature includes the repetition signature
	ShowSignature bool

	// LegalFrom lists the legal destinations of the piece on this square
	// after replay; empty disables the listing.
	LegalFrom string
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		ShowMoves: true,
		ShowFEN:   true,
	}
}
