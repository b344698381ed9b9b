package verity

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ParsePath converts the canonical default rendering back into a structured
// path. The grammar mirrors Render with DefaultFormatting:
//
//	$                root marker
//	.name            property (identifier)
//	['odd name']     property (quoted, \' and \\ escapes)
//	[7]              index (all digits)
//	[2024W15]        key (any other bracket token, parsed as a string key)
//
// Keys whose text is all digits render identically to indexes, so they parse
// back as indexes; schemas wanting a faithful round trip should avoid purely
// numeric string keys.
func ParsePath(s string) (*Path, error) {
	if !strings.HasPrefix(s, rootMarker) {
		return nil, fmt.Errorf("verity: parse path %q: missing root marker %q", s, rootMarker)
	}
	p := Root()
	rest := s[len(rootMarker):]
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			n := 0
			for n < len(rest) && rest[n] != '.' && rest[n] != '[' {
				n++
			}
			name := rest[:n]
			if !isIdent(name) {
				return nil, fmt.Errorf("verity: parse path %q: invalid property %q", s, name)
			}
			p = p.Property(name)
			rest = rest[n:]
		case '[':
			tok, remainder, err := parseBracket(rest)
			if err != nil {
				return nil, fmt.Errorf("verity: parse path %q: %w", s, err)
			}
			p = tok.extend(p)
			rest = remainder
		default:
			return nil, fmt.Errorf("verity: parse path %q: unexpected %q", s, rest[0])
		}
	}
	return p, nil
}

// bracketToken is the parsed content of one [...] group.
type bracketToken struct {
	quoted bool
	text   string
}

func (t bracketToken) extend(p *Path) *Path {
	if t.quoted {
		return p.Property(t.text)
	}
	if i, err := strconv.Atoi(t.text); err == nil && t.text[0] != '+' {
		return p.Index(i)
	}
	return p.Key(t.text)
}

func parseBracket(s string) (bracketToken, string, error) {
	// s starts with '['
	s = s[1:]
	if len(s) == 0 {
		return bracketToken{}, "", fmt.Errorf("unterminated bracket")
	}
	if s[0] == '\'' {
		var b strings.Builder
		i := 1
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			if c == '\'' {
				if i+1 >= len(s) || s[i+1] != ']' {
					return bracketToken{}, "", fmt.Errorf("missing ] after quoted property")
				}
				return bracketToken{quoted: true, text: b.String()}, s[i+2:], nil
			}
			b.WriteByte(c)
			i++
		}
		return bracketToken{}, "", fmt.Errorf("unterminated quoted property")
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return bracketToken{}, "", fmt.Errorf("unterminated bracket")
	}
	if end == 0 {
		return bracketToken{}, "", fmt.Errorf("empty bracket")
	}
	return bracketToken{text: s[:end]}, s[end+1:], nil
}

// Resolve walks the path inside root: property segments resolve via
// string-keyed map lookup or exported struct field, index segments via
// slice/array position, key segments via map-key lookup. An unresolvable
// segment yields (nil, false) instead of panicking.
func (p *Path) Resolve(root any) (any, bool) {
	cur := root
	for _, seg := range p.Segments() {
		next, ok := resolveSegment(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func resolveSegment(v any, seg Segment) (any, bool) {
	switch seg.Kind {
	case SegmentProperty:
		if m, ok := v.(map[string]any); ok {
			out, ok := m[seg.Name]
			return out, ok
		}
		return resolveReflect(v, seg)
	case SegmentIndex:
		if s, ok := v.([]any); ok {
			if seg.Index < 0 || seg.Index >= len(s) {
				return nil, false
			}
			return s[seg.Index], true
		}
		return resolveReflect(v, seg)
	default:
		if m, ok := v.(map[string]any); ok {
			ks, ok := seg.Key.(string)
			if !ok {
				ks = fmt.Sprint(seg.Key)
			}
			out, ok2 := m[ks]
			return out, ok2
		}
		return resolveReflect(v, seg)
	}
}

// resolveReflect is the slow path for typed structs, slices, and maps. Keys
// resolve by exact type first, then by textual match, so paths parsed from
// text still find entries in typed maps.
func resolveReflect(v any, seg Segment) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch seg.Kind {
	case SegmentProperty:
		switch rv.Kind() {
		case reflect.Struct:
			f := rv.FieldByName(seg.Name)
			if !f.IsValid() || !f.CanInterface() {
				return nil, false
			}
			return f.Interface(), true
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			out := rv.MapIndex(reflect.ValueOf(seg.Name).Convert(rv.Type().Key()))
			if !out.IsValid() {
				return nil, false
			}
			return out.Interface(), true
		}
	case SegmentIndex:
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			if seg.Index < 0 || seg.Index >= rv.Len() {
				return nil, false
			}
			return rv.Index(seg.Index).Interface(), true
		}
	case SegmentKey:
		if rv.Kind() != reflect.Map {
			return nil, false
		}
		kv := reflect.ValueOf(seg.Key)
		if kv.IsValid() && kv.Type().AssignableTo(rv.Type().Key()) {
			out := rv.MapIndex(kv)
			if out.IsValid() {
				return out.Interface(), true
			}
		}
		// textual fallback for keys carried as strings (e.g. parsed paths)
		want := fmt.Sprint(seg.Key)
		iter := rv.MapRange()
		for iter.Next() {
			if fmt.Sprint(iter.Key().Interface()) == want {
				return iter.Value().Interface(), true
			}
		}
	}
	return nil, false
}

// ResolveJSON decodes a raw JSON document and resolves p inside it. The error
// reports a malformed document; a well-formed document without the path
// yields (nil, false, nil).
func ResolveJSON(data []byte, p *Path) (any, bool, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, false, fmt.Errorf("verity: resolve json: %w", err)
	}
	v, ok := p.Resolve(root)
	return v, ok, nil
}
