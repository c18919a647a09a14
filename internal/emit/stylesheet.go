package emit

import (
	"bufio"
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
)

// Stylesheet is an ordered, duplicate-free list of rules.
type Stylesheet struct {
	Rules []css.Rule
}

// Assemble deduplicates rules and orders them by layer, screen, variant
// flags, utility order and class. The result does not depend on input order.
func Assemble(rules []css.Rule) *Stylesheet {
	unique := make(map[string]css.Rule, len(rules))
	for _, r := range rules {
		keep(unique, r)
	}

	out := make([]css.Rule, 0, len(unique))
	for _, r := range unique {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})

	return &Stylesheet{Rules: out}
}

// Write serializes the stylesheet. Consecutive rules under the same at-rule
// chain share one block.
func (s *Stylesheet) Write(w io.Writer, minify bool) error {
	p := &printer{w: bufio.NewWriter(w), minify: minify}

	var open []string
	for _, r := range s.Rules {
		common := commonPrefix(open, r.AtRules)
		for len(open) > common {
			open = open[:len(open)-1]
			p.closeBlock(len(open))
		}
		for _, at := range r.AtRules[common:] {
			p.openBlock(at, len(open))
			open = append(open, at)
		}
		p.rule(r, len(open))
	}
	for len(open) > 0 {
		open = open[:len(open)-1]
		p.closeBlock(len(open))
	}

	return p.w.Flush()
}

// CSS returns the serialized stylesheet.
func (s *Stylesheet) CSS(minify bool) string {
	var buf bytes.Buffer
	_ = s.Write(&buf, minify)
	return buf.String()
}

type printer struct {
	w      *bufio.Writer
	minify bool
	wrote  bool
}

// separate puts a blank line between top-level blocks.
func (p *printer) separate(depth int) {
	if depth == 0 && p.wrote && !p.minify {
		_ = p.w.WriteByte('\n')
	}
	p.wrote = true
}

func (p *printer) indent(depth int) {
	if !p.minify {
		_, _ = p.w.WriteString(strings.Repeat("  ", depth))
	}
}

func (p *printer) openBlock(at string, depth int) {
	p.separate(depth)
	p.indent(depth)
	_, _ = p.w.WriteString(at)
	if p.minify {
		_ = p.w.WriteByte('{')
		return
	}
	_, _ = p.w.WriteString(" {\n")
}

func (p *printer) closeBlock(depth int) {
	p.indent(depth)
	_ = p.w.WriteByte('}')
	if !p.minify {
		_ = p.w.WriteByte('\n')
	}
}

func (p *printer) rule(r css.Rule, depth int) {
	p.separate(depth)

	if p.minify {
		_, _ = p.w.WriteString(r.Selector)
		_ = p.w.WriteByte('{')
		for i, d := range r.Declarations {
			if i > 0 {
				_ = p.w.WriteByte(';')
			}
			_, _ = p.w.WriteString(d.Property)
			_ = p.w.WriteByte(':')
			_, _ = p.w.WriteString(d.Value)
		}
		_ = p.w.WriteByte('}')
		return
	}

	p.indent(depth)
	_, _ = p.w.WriteString(r.Selector)
	_, _ = p.w.WriteString(" {\n")
	for _, d := range r.Declarations {
		p.indent(depth + 1)
		_, _ = p.w.WriteString(d.Property)
		_, _ = p.w.WriteString(": ")
		_, _ = p.w.WriteString(d.Value)
		_, _ = p.w.WriteString(";\n")
	}
	p.indent(depth)
	_, _ = p.w.WriteString("}\n")
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
