package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/worker"
)

// JSONGame represents a replayed game in JSON format.
type JSONGame struct {
	Name      string     `json:"name,omitempty"`
	Moves     []JSONMove `json:"moves,omitempty"`
	History   string     `json:"history,omitempty"`
	Status    string     `json:"status,omitempty"`
	Result    string     `json:"result,omitempty"`
	PlyCount  int        `json:"plyCount"`
	FinalFEN  string     `json:"finalFEN,omitempty"`
	Signature string     `json:"signature,omitempty"`
	Legal     []string   `json:"legal,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int    `json:"moveNumber"`
	Color      string `json:"color"` // "white" or "black"
	Text       string `json:"text"`
	UCI        string `json:"uci"`
	Piece      string `json:"piece"`
	Captured   string `json:"captured,omitempty"`
	Promotion  string `json:"promotion,omitempty"`
	Castle     string `json:"castle,omitempty"`
	EnPassant  bool   `json:"enPassant,omitempty"`
	Check      bool   `json:"check,omitempty"`
	Checkmate  bool   `json:"checkmate,omitempty"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// OutputResultJSON writes a single result as a JSON object.
func OutputResultJSON(w io.Writer, r worker.Result, cfg *config.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ResultToJSON(r, cfg))
}

// ResultToJSON converts a replay result to JSON form.
func ResultToJSON(r worker.Result, cfg *config.Config) *JSONGame {
	jg := &JSONGame{Name: r.Name}
	if r.Err != nil {
		jg.Error = r.Err.Error()
	}
	g := r.Game
	if g == nil {
		return jg
	}

	if cfg.Output.ShowMoves {
		jg.Moves = convertMoveList(g)
		jg.History = g.MoveHistoryText()
	}
	jg.Status = g.Status().String()
	jg.Result = g.Status().Result()
	jg.PlyCount = g.Ply()
	if cfg.Output.ShowFEN {
		jg.FinalFEN = g.FEN()
	}
	if cfg.Output.ShowSignature {
		jg.Signature = g.Signature()
	}
	if cfg.Output.LegalFrom != "" {
		jg.Legal = legalFrom(g, cfg.Output.LegalFrom)
	}
	return jg
}

func convertMoveList(g *engine.Game) []JSONMove {
	played := g.History()
	moves := make([]JSONMove, 0, len(played))
	number := g.StartFullmove()
	for i, rec := range played {
		if i > 0 && rec.Colour == chess.White {
			number++
		}
		moves = append(moves, convertSingleMove(rec, number))
	}
	return moves
}

func convertSingleMove(rec chess.MoveRecord, number int) JSONMove {
	jm := JSONMove{
		MoveNumber: number,
		Color:      colorName(rec.Colour),
		Text:       rec.Text,
		UCI:        rec.From.String() + rec.To.String(),
		Piece:      pieceTypeName(rec.PieceType),
		EnPassant:  rec.EnPassant,
		Check:      rec.Check,
		Checkmate:  rec.Checkmate,
	}
	if rec.IsCapture() {
		jm.Captured = pieceTypeName(rec.CapturedType)
	}
	if rec.IsPromotion() {
		jm.Promotion = pieceTypeName(rec.PromotedType)
		jm.UCI += strings.ToLower(string(rec.PromotedType.Letter()))
	}
	switch rec.Castle {
	case chess.Kingside:
		jm.Castle = "kingside"
	case chess.Queenside:
		jm.Castle = "queenside"
	}
	return jm
}

func colorName(c chess.Colour) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

func pieceTypeName(p chess.PieceType) string {
	return strings.ToLower(p.String())
}
