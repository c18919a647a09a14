package atomcss

import (
	"sync"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/scanner"
	"github.com/yacobolo/atomcss/internal/theme"
	"github.com/yacobolo/atomcss/internal/utility"
	"github.com/yacobolo/atomcss/internal/variant"
)

// vocabulary classifies scanned candidates against a frozen registry and
// memoizes the compiled rule of each accepted token.
type vocabulary struct {
	registry *utility.Registry
	theme    *theme.Theme
	rules    sync.Map // accepted token -> compiled
}

type compiled struct {
	rule    css.Rule
	verdict scanner.Verdict
}

// Classify implements scanner.Vocabulary.
func (v *vocabulary) Classify(token string) scanner.Verdict {
	return v.compile(token).verdict
}

func (v *vocabulary) compile(token string) compiled {
	if c, ok := v.rules.Load(token); ok {
		return c.(compiled)
	}
	c := v.classify(token)
	if c.verdict == scanner.Accept {
		v.rules.Store(token, c)
	}
	return c
}

func (v *vocabulary) classify(token string) compiled {
	p, ok := utility.Parse(token, v.registry.Variants())
	if !ok {
		return compiled{verdict: scanner.Reject}
	}

	if rule, ok := v.registry.Compile(p, v.theme); ok {
		return compiled{rule: rule, verdict: scanner.Accept}
	}

	// Only flag unknown prefixes in front of a real utility; "http://x" and
	// prose like "Note:" stay silent.
	if _, ok := p.UnknownVariant(); ok {
		segments := variant.Split(token)
		if _, ok := v.registry.CompileToken(segments[len(segments)-1], v.theme); ok {
			return compiled{verdict: scanner.UnknownVariant}
		}
		return compiled{verdict: scanner.Reject}
	}

	if p.HasArbitrary && p.Base != "" && v.registry.HasTemplate(p.Base) {
		return compiled{verdict: scanner.Malformed}
	}
	return compiled{verdict: scanner.Reject}
}
