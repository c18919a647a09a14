package css

import (
	"fmt"
	"strings"
)

// ClassSelector returns the class selector for a raw class token.
func ClassSelector(class string) string {
	return "." + EscapeClass(class)
}

// EscapeClass escapes a class name for use in a selector, following the
// CSSOM serialize-an-identifier rules.
func EscapeClass(class string) string {
	var b strings.Builder
	b.Grow(len(class) + 8)

	for i, r := range class {
		switch {
		case r == 0:
			b.WriteRune('�')
		case (r >= 0x01 && r <= 0x1f) || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && isDigit(r):
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 1 && isDigit(r) && class[0] == '-':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && r == '-' && len(class) == 1:
			b.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' || isDigit(r) || isLetter(r):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
