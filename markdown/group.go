package markdown

// Group is the items of one kind, as shown in one section of the navigation.
type Group struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Title string `json:"title" yaml:"title"`
	Items []Item `json:"items" yaml:"items"`
}

// GroupByKind groups items by kind in navigation order, keeping document order within a group.
// Kinds without items are omitted.
func GroupByKind(items []Item) []Group {
	byKind := map[Kind][]Item{}
	for _, item := range items {
		byKind[item.Kind] = append(byKind[item.Kind], item)
	}
	var groups []Group
	for _, k := range Kinds {
		if len(byKind[k]) > 0 {
			groups = append(groups, Group{Kind: k, Title: k.Title(), Items: byKind[k]})
		}
	}
	return groups
}

// ActiveOffset is how far below the top of the viewport (in pixels) a heading may start and still
// count as the one being read.
const ActiveOffset = 150

// ActiveID returns the id of the heading being read when the page is scrolled to scrollY, given
// the vertical offsets of the rendered anchors. It is the last heading that starts at or above
// scrollY+ActiveOffset, or "" if none does. Headings without a known offset are skipped.
func ActiveID(items []Item, offsets map[string]int, scrollY int) string {
	var active string
	for _, item := range items {
		if item.Kind != Heading {
			continue
		}
		if top, ok := offsets[item.ID]; ok && top <= scrollY+ActiveOffset {
			active = item.ID
		}
	}
	return active
}
