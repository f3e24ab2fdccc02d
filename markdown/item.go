package markdown

// Kind is the kind of a structural item.
type Kind int

// The kinds of structural items, in the order navigation groups them.
const (
	Heading Kind = iota
	Table
	Checklist
	CodeBlock
	Image
	Callout
	StepList
)

var kindNames = [...]string{"heading", "table", "checklist", "code", "image", "callout", "steps"}

var kindTitles = [...]string{"Headings", "Tables", "Checklists", "Code", "Images", "Callouts", "Steps"}

// Kinds lists every kind in navigation order.
var Kinds = []Kind{Heading, Table, Checklist, CodeBlock, Image, Callout, StepList}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Title is the plural, human-readable name of the kind (used as a navigation group title).
func (k Kind) Title() string {
	if k < 0 || int(k) >= len(kindTitles) {
		return "Other"
	}
	return kindTitles[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// Item is one structural element of a document, such as a heading or a table.
type Item struct {
	ID        string `json:"id" yaml:"id"`                                   // anchor identifier, unique in the document
	Kind      Kind   `json:"kind" yaml:"kind"`                               // kind of element
	Label     string `json:"label" yaml:"label"`                             // cleaned, human-readable text
	Level     int    `json:"level,omitempty" yaml:"level,omitempty"`         // heading depth (2 or 3)
	Count     int    `json:"count,omitempty" yaml:"count,omitempty"`         // table rows, checklist items or steps
	Completed int    `json:"completed,omitempty" yaml:"completed,omitempty"` // checked checklist items
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`   // code fence language
	Line      int    `json:"line" yaml:"line"`                               // 1-based line where the element starts
}
