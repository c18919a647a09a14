package scanner

type language struct {
	hashComments bool // "#" starts a line comment
}

var (
	cLike = language{}
	hashy = language{hashComments: true}
)

// codeLanguages maps extensions scanned in string-literal mode.
var codeLanguages = map[string]language{
	"go": cLike, "rs": cLike, "js": cLike, "jsx": cLike, "ts": cLike, "tsx": cLike,
	"mjs": cLike, "cjs": cLike, "java": cLike, "kt": cLike, "swift": cLike,
	"cs": cLike, "cpp": cLike, "c": cLike, "h": cLike,
	"py": hashy, "rb": hashy, "php": hashy,
}

// literals returns the contents of the string literals in src with comments
// skipped. Escapes that encode whitespace become spaces; other escapes are
// kept so the tokenizer sees the escaped byte.
func literals(src []byte, lang language) []segment {
	var out []segment
	line := 1

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++

		case c == '/' && i+1 < len(src) && src[i+1] == '/',
			c == '#' && lang.hashComments:
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			i += 2

		case c == '"' || c == '\'' || c == '`':
			var seg segment
			seg, i = literal(src, i, line)
			out = append(out, seg)
			for j := 0; j < len(seg.text); j++ {
				if seg.text[j] == '\n' {
					line++
				}
			}

		default:
			i++
		}
	}

	return out
}

// literal reads the literal opening at src[start]. It returns the cleaned
// content and the index just past the literal. Single-quoted literals end at
// a newline.
func literal(src []byte, start, line int) (segment, int) {
	quote := src[start]
	buf := make([]byte, 0, 64)

	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == quote:
			return segment{text: string(buf), line: line}, i + 1
		case c == '\n' && quote == '\'':
			return segment{text: string(buf), line: line}, i
		case c == '\\' && i+1 < len(src):
			switch e := src[i+1]; e {
			case 'n', 't', 'r', 'f', 'v', '0':
				buf = append(buf, ' ')
			case '\n':
				buf = append(buf, '\n')
			default:
				buf = append(buf, '\\', e)
			}
			i += 2
			continue
		}
		buf = append(buf, c)
		i++
	}

	return segment{text: string(buf), line: line}, i
}
