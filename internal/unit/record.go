package unit

// Record kinds.
const (
	KindClass          = "class"
	KindModule         = "module"
	KindSingletonClass = "singleton_class"
	KindMethod         = "method"
	KindAttribute      = "attribute"
	KindConstant       = "constant"
	KindInclude        = "include"
	KindExtend         = "extend"
)

// Record is one line of a unit file.
type Record struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Parent     string `json:"parent,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	NoDoc      bool   `json:"nodoc,omitempty"`
	Doc        bool   `json:"doc,omitempty"`
	Line       uint32 `json:"line,omitempty"`

	Superclass string `json:"superclass,omitempty"`

	Params    string `json:"params,omitempty"`
	Singleton bool   `json:"singleton,omitempty"`
	AliasOf   string `json:"alias_of,omitempty"`
	CallSeq   string `json:"call_seq,omitempty"`

	RW string `json:"rw,omitempty"`

	Value    string `json:"value,omitempty"`
	AliasFor string `json:"alias_for,omitempty"`
}
