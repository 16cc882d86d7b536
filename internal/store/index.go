package store

// SchemaVersion is bumped whenever Index changes shape.
const SchemaVersion uint16 = 1

// FileName is the index file inside the output directory.
const FileName = "index.mp"

// Index is the flattened, schema-versioned registry snapshot.
type Index struct {
	Schema     uint16
	Files      []string
	Containers []ContainerRecord
}

// Location points at a unit file (index into Index.Files) and line.
type Location struct {
	File int32 // -1 when unknown
	Line uint32
}

// ContainerRecord is one registered container.
type ContainerRecord struct {
	FullName     string
	Kind         uint8
	Visibility   uint8
	DocumentSelf bool
	Forced       bool
	Placeholder  bool
	// Listed is false for containers dropped from their parent's listing.
	Listed     bool
	Superclass string
	// Comment holds the text of each accumulated comment.
	Comment    []string
	AliasFor   string
	Aliases    []string
	Methods    []MethodRecord
	Attributes []AttributeRecord
	Constants  []ConstantRecord
	Mixins     []MixinRecord
	InFiles    []int32
	Loc        Location
}

// MethodRecord is a stored method.
type MethodRecord struct {
	Name           string
	Params         string
	CallSeq        string
	Singleton      bool
	Visibility     uint8
	DocumentSelf   bool
	Forced         bool
	Comment        []string
	AliasOwner     string
	AliasName      string
	AliasSingleton bool
	Loc            Location
}

// AttributeRecord is a stored attribute.
type AttributeRecord struct {
	Name         string
	Kind         uint8
	Visibility   uint8
	DocumentSelf bool
	Forced       bool
	Comment      []string
	Loc          Location
}

// ConstantRecord is a stored constant.
type ConstantRecord struct {
	Name         string
	Value        string
	Visibility   uint8
	DocumentSelf bool
	Forced       bool
	Comment      []string
	AliasFor     string
	Loc          Location
}

// MixinRecord is a stored include or extend.
type MixinRecord struct {
	Name    string
	Kind    uint8
	Comment []string
	Loc     Location
}

// Find returns the record stored under fullName.
func (idx *Index) Find(fullName string) (*ContainerRecord, bool) {
	for i := range idx.Containers {
		if idx.Containers[i].FullName == fullName {
			return &idx.Containers[i], true
		}
	}
	return nil, false
}
