package markdown

import (
	"bytes"

	"github.com/adrg/frontmatter"
	"github.com/pkg/errors"
)

// Metadata is document metadata in the front matter of a markdown document (YAML between `---`
// lines or TOML between `+++` lines).
type Metadata struct {
	Title       string   `yaml:"title" toml:"title" json:"title,omitempty"`
	Slug        string   `yaml:"slug" toml:"slug" json:"slug,omitempty"`
	Description string   `yaml:"description" toml:"description" json:"description,omitempty"`
	Category    string   `yaml:"category" toml:"category" json:"category,omitempty"`
	Tags        []string `yaml:"tags" toml:"tags" json:"tags,omitempty"`
	Draft       bool     `yaml:"draft" toml:"draft" json:"draft,omitempty"`
}

// ParseMetadata splits the front matter off input. A document without front matter has empty
// metadata and is returned whole.
func ParseMetadata(input []byte) (meta Metadata, body []byte, err error) {
	body, err = frontmatter.Parse(bytes.NewReader(input), &meta)
	if err != nil {
		return meta, input, errors.WithMessage(err, "parse front matter")
	}
	return meta, body, nil
}
