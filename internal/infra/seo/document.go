package seo

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"toolsapp/internal/domain"
)

// Document is the surface page metadata is applied to. Implementations must
// update existing elements in place so that applying the same metadata twice
// leaves the document unchanged.
type Document interface {
	SetTitle(title string)
	SetMeta(attr domain.MetaAttr, key, content string)
	SetCanonical(href string)
	SetStructuredData(id string, data []byte)
	RemoveStructuredData(id string)
}

// Apply writes meta to doc.
func Apply(doc Document, meta domain.PageMetadata) {
	doc.SetTitle(meta.Title)
	for _, tag := range meta.Tags {
		doc.SetMeta(tag.Attr, tag.Key, tag.Content)
	}
	doc.SetCanonical(meta.CanonicalURL)
	if len(meta.StructuredData) > 0 {
		doc.SetStructuredData(domain.StructuredDataScriptID, meta.StructuredData)
		return
	}
	doc.RemoveStructuredData(domain.StructuredDataScriptID)
}

// HTMLDocument is a parsed HTML page whose head can be rewritten.
type HTMLDocument struct {
	root *html.Node
	head *html.Node
}

var _ Document = (*HTMLDocument)(nil)

// ParseDocument parses a full HTML page.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	head := findFirst(root, func(n *html.Node) bool { return isElement(n, atom.Head) })
	if head == nil {
		// html.Parse always synthesizes a head; guard against odd inputs.
		return nil, fmt.Errorf("parse html: document has no head")
	}
	return &HTMLDocument{root: root, head: head}, nil
}

// Render writes the document as HTML.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *HTMLDocument) String() string {
	var sb strings.Builder
	_ = d.Render(&sb)
	return sb.String()
}

func (d *HTMLDocument) SetTitle(title string) {
	el := findFirst(d.head, func(n *html.Node) bool { return isElement(n, atom.Title) })
	if el == nil {
		el = newElement(atom.Title)
		d.head.AppendChild(el)
	}
	setText(el, title)
}

func (d *HTMLDocument) Title() string {
	el := findFirst(d.head, func(n *html.Node) bool { return isElement(n, atom.Title) })
	if el == nil {
		return ""
	}
	return textOf(el)
}

func (d *HTMLDocument) SetMeta(attr domain.MetaAttr, key, content string) {
	el := d.findMeta(attr, key)
	if el == nil {
		el = newElement(atom.Meta)
		setAttr(el, string(attr), key)
		d.head.AppendChild(el)
	}
	setAttr(el, "content", content)
}

// Meta returns the content of a keyed meta element.
func (d *HTMLDocument) Meta(attr domain.MetaAttr, key string) (string, bool) {
	el := d.findMeta(attr, key)
	if el == nil {
		return "", false
	}
	return getAttr(el, "content")
}

func (d *HTMLDocument) findMeta(attr domain.MetaAttr, key string) *html.Node {
	return findFirst(d.head, func(n *html.Node) bool {
		if !isElement(n, atom.Meta) {
			return false
		}
		v, ok := getAttr(n, string(attr))
		return ok && v == key
	})
}

func (d *HTMLDocument) SetCanonical(href string) {
	el := d.findCanonical()
	if el == nil {
		el = newElement(atom.Link)
		setAttr(el, "rel", "canonical")
		d.head.AppendChild(el)
	}
	setAttr(el, "href", href)
}

func (d *HTMLDocument) Canonical() string {
	el := d.findCanonical()
	if el == nil {
		return ""
	}
	href, _ := getAttr(el, "href")
	return href
}

func (d *HTMLDocument) findCanonical() *html.Node {
	return findFirst(d.head, func(n *html.Node) bool {
		if !isElement(n, atom.Link) {
			return false
		}
		rel, ok := getAttr(n, "rel")
		return ok && strings.EqualFold(rel, "canonical")
	})
}

func (d *HTMLDocument) SetStructuredData(id string, data []byte) {
	el := d.findByID(id)
	if el == nil {
		el = newElement(atom.Script)
		setAttr(el, "id", id)
		d.head.AppendChild(el)
	}
	setAttr(el, "type", "application/ld+json")
	setText(el, string(data))
}

// StructuredData returns the body of the script element with id.
func (d *HTMLDocument) StructuredData(id string) (string, bool) {
	el := d.findByID(id)
	if el == nil {
		return "", false
	}
	return textOf(el), true
}

func (d *HTMLDocument) RemoveStructuredData(id string) {
	for {
		el := d.findByID(id)
		if el == nil {
			return
		}
		el.Parent.RemoveChild(el)
	}
}

func (d *HTMLDocument) findByID(id string) *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := getAttr(n, "id")
		return ok && v == id
	})
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
