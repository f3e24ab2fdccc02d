package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMetadata(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantMeta Metadata
		wantBody string
	}{
		"yaml": {
			input:    "---\ntitle: Hello\ncategory: article\ntags: [go, markdown]\n---\n# Body\n",
			wantMeta: Metadata{Title: "Hello", Category: "article", Tags: []string{"go", "markdown"}},
			wantBody: "# Body\n",
		},
		"toml": {
			input:    "+++\ntitle = \"Hello\"\ndraft = true\n+++\nBody\n",
			wantMeta: Metadata{Title: "Hello", Draft: true},
			wantBody: "Body\n",
		},
		"none": {
			input:    "# Just markdown\n",
			wantBody: "# Just markdown\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			meta, body, err := ParseMetadata([]byte(test.input))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.wantMeta, meta); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}
			if string(body) != test.wantBody {
				t.Errorf("got body %q, want %q", body, test.wantBody)
			}
		})
	}
}
