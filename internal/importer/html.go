package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/muurk/boxes/internal/notation"
)

// HTML imports HTML pages using golang.org/x/net/html.
type HTML struct{}

// Import implements Importer. The <title> element, if any, names the root.
func (h *HTML) Import(r io.Reader, filename string) (*notation.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := titleFromName(filename)
	if t := findElement(doc, "title"); t != nil {
		if s := textContent(t); s != "" {
			title = s
		}
	}
	o := newOutline(title)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				o.heading(level, textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "ul", "ol":
				o.box(htmlList(n))
				return
			case "p", "li", "td", "th", "blockquote", "pre", "dt", "dd":
				o.paragraph(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return o.root, nil
}

// htmlList returns a box with one row per <li>. Text before, between and
// after nested lists stays in document order.
func htmlList(list *html.Node) *notation.Node {
	box := notation.List()
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		var row []*notation.Node
		var pending strings.Builder
		flush := func() {
			row = append(row, words(pending.String())...)
			pending.Reset()
		}
		var collect func(*html.Node)
		collect = func(n *html.Node) {
			switch {
			case n.Type == html.TextNode:
				pending.WriteString(n.Data)
			case n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol"):
				flush()
				row = append(row, htmlList(n))
			default:
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					collect(c)
				}
			}
		}
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
		flush()
		if len(row) > 0 {
			box.Rows = append(box.Rows, row)
		}
	}
	return box
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
