package verity

import (
	"strconv"
	"strings"
	"sync"
)

// SegmentKind enumerates the three location segment kinds.
type SegmentKind uint8

const (
	SegmentProperty SegmentKind = iota // named property of an object
	SegmentIndex                       // position inside a sequence
	SegmentKey                         // arbitrary key of a map
)

// Segment is one typed step of a validation path.
type Segment struct {
	Kind  SegmentKind
	Name  string // property name when Kind == SegmentProperty
	Index int    // element index when Kind == SegmentIndex
	Key   any    // map key when Kind == SegmentKey; must be comparable
}

// Path is an immutable, structurally shared location inside an input graph.
// Appending a segment returns a new tail referencing the unchanged prefix, so
// distinct paths sharing a prefix share the same parent nodes. Text rendering
// is deferred until needed and cached per node per Formatting; children reuse
// the already-rendered prefix of their parent.
type Path struct {
	parent *Path
	seg    Segment
	depth  int

	mu       sync.Mutex
	rendered map[*Formatting]string
}

var rootPath = &Path{}

// Root returns the shared root path, rendered as "$".
func Root() *Path { return rootPath }

func (p *Path) child(seg Segment) *Path {
	if p == nil {
		p = rootPath
	}
	return &Path{parent: p, seg: seg, depth: p.depth + 1}
}

// Property returns p extended by a named-property segment.
func (p *Path) Property(name string) *Path {
	return p.child(Segment{Kind: SegmentProperty, Name: name})
}

// Index returns p extended by a sequence-index segment.
func (p *Path) Index(i int) *Path {
	return p.child(Segment{Kind: SegmentIndex, Index: i})
}

// Key returns p extended by a map-key segment. The key must be comparable.
func (p *Path) Key(k any) *Path {
	return p.child(Segment{Kind: SegmentKey, Key: k})
}

// IsRoot reports whether p is the root (no segments).
func (p *Path) IsRoot() bool { return p == nil || p.parent == nil }

// Len returns the number of segments (0 for root).
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return p.depth
}

// Segment returns the last segment. It is meaningless for the root.
func (p *Path) Segment() Segment {
	if p == nil {
		return Segment{}
	}
	return p.seg
}

// Parent returns the path without its last segment, or nil for the root.
func (p *Path) Parent() *Path {
	if p == nil {
		return nil
	}
	return p.parent
}

// Segments returns the segments from root to tail.
func (p *Path) Segments() []Segment {
	if p == nil {
		return nil
	}
	out := make([]Segment, p.depth)
	for n := p; n != nil && n.parent != nil; n = n.parent {
		out[n.depth-1] = n.seg
	}
	return out
}

// Equal reports structural equality: same length, and same kind and payload
// for every segment. Rendering plays no part in equality.
func (p *Path) Equal(q *Path) bool {
	if p.Len() != q.Len() {
		return false
	}
	for p.Len() > 0 {
		if p.seg.Kind != q.seg.Kind {
			return false
		}
		switch p.seg.Kind {
		case SegmentProperty:
			if p.seg.Name != q.seg.Name {
				return false
			}
		case SegmentIndex:
			if p.seg.Index != q.seg.Index {
				return false
			}
		case SegmentKey:
			if p.seg.Key != q.seg.Key {
				return false
			}
		}
		p, q = p.parent, q.parent
	}
	return true
}

// String renders the path with DefaultFormatting.
func (p *Path) String() string { return p.Render(nil) }

// Render renders the path with f (nil means DefaultFormatting). The result is
// cached on each node per Formatting, so the same path renders differently
// for different consumers without rebuilding, and paths sharing a prefix
// reuse the prefix text already rendered.
func (p *Path) Render(f *Formatting) string {
	if p == nil || p.parent == nil {
		return rootMarker
	}
	if f == nil {
		f = DefaultFormatting
	}
	p.mu.Lock()
	if s, ok := p.rendered[f]; ok {
		p.mu.Unlock()
		return s
	}
	p.mu.Unlock()

	s := p.parent.Render(f) + renderSegment(p.seg, f)

	p.mu.Lock()
	if p.rendered == nil {
		p.rendered = make(map[*Formatting]string, 1)
	}
	p.rendered[f] = s
	p.mu.Unlock()
	return s
}

// rootMarker is the documented textual form of the root path.
const rootMarker = "$"

func renderSegment(seg Segment, f *Formatting) string {
	switch seg.Kind {
	case SegmentProperty:
		name := f.property(seg.Name)
		if isIdent(name) {
			return "." + name
		}
		return "['" + escapeQuoted(name) + "']"
	case SegmentIndex:
		return "[" + strconv.Itoa(seg.Index) + "]"
	default:
		return "[" + f.key(seg.Key) + "]"
	}
}

// isIdent reports whether s can render unquoted after a dot.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func escapeQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
