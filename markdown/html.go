package markdown

import (
	"bytes"
	"net/url"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// urlAttrs lists the attributes that hold a URL, per element.
var urlAttrs = map[atom.Atom]string{
	atom.A:      "href",
	atom.Img:    "src",
	atom.Source: "src",
	atom.Video:  "src",
	atom.Audio:  "src",
}

func rewriteRelativeURLsInHTML(htmlSource []byte, opt Options) ([]byte, error) {
	// Pass dummyElement to html.ParseFragment to avoid introducing <html>, <head>, and <body>
	// elements in the final html.Render call.
	dummyElement := &html.Node{Type: html.ElementNode}
	nodes, err := html.ParseFragment(bytes.NewReader(htmlSource), dummyElement)
	if err != nil {
		return nil, err
	}

	resolveURL := func(urlStr string) string {
		u, err := url.Parse(urlStr)
		if err != nil || u.IsAbs() || u.Path == "" {
			return urlStr
		}
		if opt.ContentFilePathToLinkPath != nil {
			u.Path = opt.ContentFilePathToLinkPath(u.Path)
		}
		if opt.Base != nil {
			u = opt.Base.ResolveReference(u)
		}
		return u.String()
	}

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if key, ok := urlAttrs[node.DataAtom]; ok {
				for i, attr := range node.Attr {
					if attr.Key == key {
						node.Attr[i].Val = resolveURL(attr.Val)
					}
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range nodes {
		walk(node)
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
