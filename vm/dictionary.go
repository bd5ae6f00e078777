package vm

// ---------------------------------------------------------------------------
// Words and the dictionary
// ---------------------------------------------------------------------------

// WordKind discriminates the Word variant.
type WordKind uint8

const (
	// WordPrimitive is a native word dispatched through the primitive table.
	WordPrimitive WordKind = iota
	// WordCompiled is a colon definition backed by a prepared statement.
	WordCompiled
	// WordImmediate is a native word that executes even while compiling.
	WordImmediate
)

func (k WordKind) String() string {
	switch k {
	case WordPrimitive:
		return "prim"
	case WordCompiled:
		return "comp"
	case WordImmediate:
		return "imm"
	default:
		return "?"
	}
}

// Word is one dictionary entry. The payload is a tagged variant: Prim for
// Primitive/Immediate words, Compiled for colon definitions. No function
// pointers are stored, so a Word is trivially inspectable.
type Word struct {
	Name     string
	Kind     WordKind
	Prim     PrimID
	Compiled *CompiledWord
}

// Dictionary is the insertion-ordered set of defined words. Registration
// always appends; redefining a name shadows the older entry rather than
// replacing it, and lookup prefers the newest match.
type Dictionary struct {
	words []Word
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{}
}

// Register appends w unconditionally. Duplicate names are intended:
// the newer entry shadows the older one.
func (d *Dictionary) Register(w Word) {
	d.words = append(d.words, w)
}

// Find scans newest-to-oldest and returns the first word named name.
func (d *Dictionary) Find(name string) (Word, bool) {
	for i := len(d.words) - 1; i >= 0; i-- {
		if d.words[i].Name == name {
			return d.words[i], true
		}
	}
	return Word{}, false
}

// Len returns the number of registered words, shadowed entries included.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words returns all entries in definition order.
func (d *Dictionary) Words() []Word {
	out := make([]Word, len(d.words))
	copy(out, d.words)
	return out
}
