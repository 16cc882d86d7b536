package markup

// Block is a structural element of a Document.
type Block interface{ blockNode() }

// Span is an inline element inside paragraph, heading or item text.
type Span interface{ spanNode() }

// ListKind distinguishes list flavours.
type ListKind uint8

const (
	ListBullet ListKind = iota + 1
	ListNumbered
	ListLabeled
)

func (k ListKind) String() string {
	switch k {
	case ListBullet:
		return "bullet"
	case ListNumbered:
		return "numbered"
	case ListLabeled:
		return "labeled"
	default:
		return "invalid"
	}
}

// Paragraph is a run of text lines joined into inline spans.
type Paragraph struct {
	Spans []Span
}

// Verbatim keeps lines exactly, minus the common indentation of the block.
type Verbatim struct {
	Lines []string
}

// List groups consecutive items of one kind.
type List struct {
	Kind  ListKind
	Items []ListItem
}

// ListItem holds the nested blocks of a single list entry. Label is only set
// for labeled lists.
type ListItem struct {
	Label  string
	Blocks []Block
}

// Heading is a titled section marker.
type Heading struct {
	Level int
	Spans []Span
}

// BlockQuote wraps quoted blocks.
type BlockQuote struct {
	Blocks []Block
}

// Rule is a horizontal separator.
type Rule struct{}

func (Paragraph) blockNode()  {}
func (Verbatim) blockNode()   {}
func (List) blockNode()       {}
func (ListItem) blockNode()   {}
func (Heading) blockNode()    {}
func (BlockQuote) blockNode() {}
func (Rule) blockNode()       {}

// PlainText is literal text.
type PlainText struct {
	Text string
}

// Bold is strongly emphasised text.
type Bold struct {
	Text string
}

// Italic is emphasised text.
type Italic struct {
	Text string
}

// Monospace is code-like text.
type Monospace struct {
	Text string
}

// HyperLink points at an external target.
type HyperLink struct {
	Target string
	Spans  []Span
}

// CrossReference is a token that looks like a namespace path or method
// reference. It is resolved lazily by renderers.
type CrossReference struct {
	Token string
}

func (PlainText) spanNode()      {}
func (Bold) spanNode()           {}
func (Italic) spanNode()         {}
func (Monospace) spanNode()      {}
func (HyperLink) spanNode()      {}
func (CrossReference) spanNode() {}

// Document is the parsed form of one or more comments.
//
// Blocks is the flat sequence consumers render. breaks records where each
// accumulated comment starts so Text can reproduce the separators between
// comments that were merged together.
type Document struct {
	Blocks []Block
	breaks []int
}

// NewDocument builds a document from blocks.
func NewDocument(blocks ...Block) *Document {
	if len(blocks) == 0 {
		return &Document{}
	}
	return &Document{Blocks: blocks}
}

// Empty reports whether the document carries no blocks.
func (d *Document) Empty() bool {
	return d == nil || len(d.Blocks) == 0
}

// Len returns the number of top-level blocks.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Blocks)
}

// Parts splits the document back into the comments it was accumulated from.
func (d *Document) Parts() [][]Block {
	if d.Empty() {
		return nil
	}
	parts := make([][]Block, 0, len(d.breaks)+1)
	start := 0
	for _, b := range d.breaks {
		parts = append(parts, d.Blocks[start:b])
		start = b
	}
	return append(parts, d.Blocks[start:])
}

// Clone returns a copy whose block slice can be extended independently.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{}
	if len(d.Blocks) > 0 {
		out.Blocks = append([]Block(nil), d.Blocks...)
	}
	if len(d.breaks) > 0 {
		out.breaks = append([]int(nil), d.breaks...)
	}
	return out
}

// Append accumulates next after d in place, the order used when the same
// entity receives several comments in sequence. An empty side leaves the
// other untouched.
func (d *Document) Append(next *Document) {
	if d == nil || next.Empty() {
		return
	}
	if d.Empty() {
		d.Blocks = append([]Block(nil), next.Blocks...)
		d.breaks = append([]int(nil), next.breaks...)
		return
	}
	offset := len(d.Blocks)
	d.breaks = append(d.breaks, offset)
	for _, b := range next.breaks {
		d.breaks = append(d.breaks, b+offset)
	}
	d.Blocks = append(d.Blocks, next.Blocks...)
}

// Merge returns a new document holding the blocks of first followed by the
// blocks of second. If either side is empty the other is returned as a copy.
// The merge engine passes the incoming comment as first so newer information
// surfaces before the existing text.
func Merge(first, second *Document) *Document {
	switch {
	case first.Empty() && second.Empty():
		return &Document{}
	case first.Empty():
		return second.Clone()
	case second.Empty():
		return first.Clone()
	}
	out := first.Clone()
	out.Append(second)
	return out
}
