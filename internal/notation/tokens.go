package notation

import (
	"strings"
	"unicode"
)

// results are game termination markers skipped by Tokens.
var results = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "*": true}

// Tokens splits a move list into move texts. It drops move numbers ("12",
// "12.", "12...", "12.e4"), result markers, NAGs ($1), {brace} and ; comments,
// [Tag "value"] pairs and (variations), so a single-game PGN file reads as
// its main line.
func Tokens(text string) []string {
	var out []string
	for _, field := range strings.Fields(stripNonMoves(text)) {
		if results[field] || strings.HasPrefix(field, "$") {
			continue
		}
		field = stripMoveNumber(field)
		if field != "" {
			out = append(out, field)
		}
	}
	return out
}

// stripNonMoves blanks comments, tag pairs and variations. Variations nest;
// comments and tags do not. Tag values are quoted and may hold brackets.
func stripNonMoves(text string) string {
	var sb strings.Builder
	depth := 0
	var closer byte
	inTag, inQuote := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inQuote:
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		case closer != 0:
			if inTag && c == '"' {
				inQuote = true
			} else if c == closer {
				closer, inTag = 0, false
			}
			continue
		case c == '{':
			closer = '}'
		case c == '[':
			closer, inTag = ']', true
		case c == ';':
			closer = '\n'
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteByte(c)
			continue
		default:
			continue
		}
		sb.WriteByte(' ')
	}
	return sb.String()
}

func stripMoveNumber(field string) string {
	i := 0
	for i < len(field) && unicode.IsDigit(rune(field[i])) {
		i++
	}
	switch {
	case i == len(field):
		return ""
	case i == 0 || field[i] != '.':
		return field
	}
	return strings.TrimLeft(field[i:], ".")
}
