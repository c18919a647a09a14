package css

import (
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
)

// ValueType classifies a CSS value so ambiguous utilities (text-[..] as size
// or color) can pick the right declaration.
type ValueType uint8

// Value types. They are bit flags so a utility can accept several.
const (
	TypeLength ValueType = 1 << iota
	TypeNumber
	TypeColor
	TypeImage
	TypeIdent

	TypeAny = TypeLength | TypeNumber | TypeColor | TypeImage | TypeIdent
)

// namedColors is the subset of CSS named colors recognised in arbitrary values.
var namedColors = map[string]bool{
	"transparent": true, "currentcolor": true, "black": true, "white": true,
	"red": true, "green": true, "blue": true, "yellow": true, "orange": true,
	"purple": true, "pink": true, "gray": true, "grey": true, "silver": true,
	"maroon": true, "navy": true, "teal": true, "olive": true, "lime": true,
	"aqua": true, "fuchsia": true, "indigo": true, "violet": true, "brown": true,
	"gold": true, "tomato": true, "coral": true, "salmon": true, "crimson": true,
}

var colorFuncs = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true, "hwb": true,
	"lab": true, "lch": true, "oklab": true, "oklch": true, "color": true, "color-mix": true,
}

var imageFuncs = map[string]bool{
	"linear-gradient": true, "radial-gradient": true, "conic-gradient": true,
	"repeating-linear-gradient": true, "repeating-radial-gradient": true, "image-set": true,
}

var mathFuncs = map[string]bool{
	"calc": true, "min": true, "max": true, "clamp": true,
}

type lexToken struct {
	tt   csslex.TokenType
	text string
}

// lex splits v into significant tokens. ok is false when v could break out of
// a declaration value: statement or block delimiters, bad strings/urls,
// unbalanced brackets, or an injected "!".
func lex(v string) (toks []lexToken, ok bool) {
	lexer := csslex.NewLexer(parse.NewInputString(v))
	depth := 0

	for {
		tt, data := lexer.Next()
		if tt == csslex.ErrorToken {
			if lexer.Err() != io.EOF {
				return nil, false
			}
			break
		}

		switch tt {
		case csslex.WhitespaceToken, csslex.CommentToken:
			continue
		case csslex.SemicolonToken, csslex.LeftBraceToken, csslex.RightBraceToken,
			csslex.BadStringToken, csslex.BadURLToken, csslex.CDOToken, csslex.CDCToken:
			return nil, false
		case csslex.FunctionToken, csslex.LeftParenthesisToken, csslex.LeftBracketToken:
			depth++
		case csslex.RightParenthesisToken, csslex.RightBracketToken:
			depth--
			if depth < 0 {
				return nil, false
			}
		case csslex.DelimToken:
			if string(data) == "!" {
				return nil, false
			}
		}

		toks = append(toks, lexToken{tt: tt, text: string(data)})
	}

	return toks, depth == 0 && len(toks) > 0
}

// Valid reports whether v is safe to embed as a declaration value.
func Valid(v string) bool {
	_, ok := lex(v)
	return ok
}

// InferType classifies v by its first significant token. It returns 0 for
// values that do not lex.
func InferType(v string) ValueType {
	toks, ok := lex(v)
	if !ok {
		return 0
	}

	first := toks[0]
	switch first.tt {
	case csslex.HashToken:
		return TypeColor
	case csslex.URLToken:
		return TypeImage
	case csslex.DimensionToken, csslex.PercentageToken:
		return TypeLength
	case csslex.NumberToken:
		return TypeNumber
	case csslex.StringToken:
		return TypeIdent
	case csslex.IdentToken:
		if namedColors[strings.ToLower(first.text)] {
			return TypeColor
		}
		return TypeIdent
	case csslex.FunctionToken:
		name := strings.ToLower(strings.TrimSuffix(first.text, "("))
		switch {
		case name == "var":
			return TypeAny
		case colorFuncs[name]:
			return TypeColor
		case imageFuncs[name] || name == "url":
			return TypeImage
		case mathFuncs[name]:
			return TypeLength
		}
	}

	return TypeIdent
}

// Negate flips the sign of a numeric value ("1rem" -> "-1rem"). A single
// math function or var() call is wrapped as calc(v * -1). Anything else
// cannot be negated.
func Negate(v string) (string, bool) {
	v = strings.TrimSpace(v)
	toks, ok := lex(v)
	if !ok {
		return "", false
	}

	if len(toks) > 1 {
		if !singleCall(toks) {
			return "", false
		}
		return "calc(" + v + " * -1)", true
	}

	switch toks[0].tt {
	case csslex.NumberToken, csslex.DimensionToken, csslex.PercentageToken:
	default:
		return "", false
	}

	switch v[0] {
	case '-':
		return v[1:], true
	case '+':
		return "-" + v[1:], true
	}
	return "-" + v, true
}

// singleCall reports whether toks are exactly one calc/min/max/clamp/var
// call.
func singleCall(toks []lexToken) bool {
	if toks[0].tt != csslex.FunctionToken {
		return false
	}
	name := strings.ToLower(strings.TrimSuffix(toks[0].text, "("))
	if !mathFuncs[name] && name != "var" {
		return false
	}

	depth := 0
	for i, tok := range toks {
		switch tok.tt {
		case csslex.FunctionToken, csslex.LeftParenthesisToken, csslex.LeftBracketToken:
			depth++
		case csslex.RightParenthesisToken, csslex.RightBracketToken:
			depth--
			if depth == 0 && i != len(toks)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// Pixels converts a px, em or rem length to pixels (1em = 1rem = 16px).
func Pixels(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	toks, ok := lex(v)
	if !ok || len(toks) != 1 || toks[0].tt != csslex.DimensionToken {
		return 0, false
	}

	unit := strings.TrimLeft(strings.ToLower(v), "+-0123456789.")
	n, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(v), unit), 64)
	if err != nil {
		return 0, false
	}

	switch unit {
	case "px":
		return n, true
	case "em", "rem":
		return n * 16, true
	}
	return 0, false
}
