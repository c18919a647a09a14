package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// PathError reports a malformed theme entry together with the configuration
// path that has to be fixed, for example "theme.extend.colors.brand".
type PathError struct {
	Path string
	Msg  string
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Msg
}

// Decode splits a raw configuration theme mapping into category overrides and
// the additive categories found under "extend".
//
// Nested mappings flatten into dash-joined keys ({red: {500: x}} becomes
// "red-500") and a nested DEFAULT key names its parent.
func Decode(raw map[string]any) (overrides, extensions Categories, err error) {
	overrides = Categories{}
	extensions = Categories{}

	for _, cat := range sortedKeys(raw) {
		v := raw[cat]

		if cat == "extend" {
			if v == nil {
				continue
			}
			ext, ok := asMap(v)
			if !ok {
				return nil, nil, &PathError{Path: "theme.extend", Msg: fmt.Sprintf("expected a mapping, got %T", v)}
			}
			for _, extCat := range sortedKeys(ext) {
				values, err := decodeCategory("theme.extend."+extCat, ext[extCat])
				if err != nil {
					return nil, nil, err
				}
				extensions[extCat] = values
			}
			continue
		}

		values, err := decodeCategory("theme."+cat, v)
		if err != nil {
			return nil, nil, err
		}
		overrides[cat] = values
	}

	return overrides, extensions, nil
}

func decodeCategory(path string, v any) (map[string]Value, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, &PathError{Path: path, Msg: fmt.Sprintf("expected a mapping, got %s", typeName(v))}
	}
	out := make(map[string]Value, len(m))
	if err := flatten(path, "", m, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(path, prefix string, m map[string]any, out map[string]Value) error {
	for _, key := range sortedKeys(m) {
		child := m[key]
		childPath := path + "." + key

		name := key
		switch {
		case key == "DEFAULT" && prefix != "":
			name = prefix
		case prefix != "":
			name = prefix + "-" + key
		}

		if nested, ok := asMap(child); ok {
			if err := flatten(childPath, name, nested, out); err != nil {
				return err
			}
			continue
		}

		v, err := decodeLeaf(childPath, child)
		if err != nil {
			return err
		}
		out[name] = v
	}
	return nil
}

func decodeLeaf(path string, v any) (Value, error) {
	if s, ok := scalar(v); ok {
		if strings.TrimSpace(s) == "" {
			return Value{}, &PathError{Path: path, Msg: "empty value"}
		}
		return Value{CSS: s}, nil
	}

	list, ok := v.([]any)
	if !ok {
		return Value{}, &PathError{Path: path, Msg: fmt.Sprintf("expected a string, number or list, got %s", typeName(v))}
	}
	if len(list) == 0 || len(list) > 2 {
		return Value{}, &PathError{Path: path, Msg: fmt.Sprintf("expected a list of 1 or 2 values, got %d", len(list))}
	}

	first, ok := scalar(list[0])
	if !ok {
		return Value{}, &PathError{Path: path + "[0]", Msg: fmt.Sprintf("expected a string or number, got %s", typeName(list[0]))}
	}
	out := Value{CSS: first}
	if len(list) == 1 {
		return out, nil
	}

	// Tuple companions may be written as {lineHeight: ...}.
	second := list[1]
	if m, ok := asMap(second); ok {
		second = m["lineHeight"]
	}
	companion, ok := scalar(second)
	if !ok {
		return Value{}, &PathError{Path: path + "[1]", Msg: fmt.Sprintf("expected a string or number, got %s", typeName(list[1]))}
	}
	out.Companion = companion
	return out, nil
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	}
	return "", false
}

// asMap accepts both decoder flavours: map[string]any (YAML v3, TOML, JSON)
// and map[any]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
