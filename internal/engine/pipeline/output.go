package pipeline

import (
	"go.trai.ch/loom/internal/core/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Output is the result of one pipeline node. Finalize applies the node's patch
// to the parsed document. Outputs are finalized in spawn order.
type Output interface {
	Finalize(doc *html.Node) error

	output()
}

// stylesheetOutput replaces the asset link with stylesheet links.
type stylesheetOutput struct {
	elem  *html.Node
	hrefs []string
	attrs []html.Attribute
}

func (o *stylesheetOutput) output() {}

func (o *stylesheetOutput) Finalize(_ *html.Node) error {
	nodes := make([]*html.Node, 0, len(o.hrefs))
	for _, href := range o.hrefs {
		nodes = append(nodes, stylesheetLink(href, o.attrs))
	}
	return replace(o.elem, nodes...)
}

// scriptOutput replaces the asset link with a module script and the stylesheets
// the bundle emitted.
type scriptOutput struct {
	elem   *html.Node
	src    string
	styles []string
	attrs  []html.Attribute
}

func (o *scriptOutput) output() {}

func (o *scriptOutput) Finalize(_ *html.Node) error {
	nodes := make([]*html.Node, 0, len(o.styles)+1)
	for _, href := range o.styles {
		nodes = append(nodes, stylesheetLink(href, nil))
	}
	if o.src != "" {
		attrs := append([]html.Attribute{{Key: "type", Val: "module"}, {Key: "src", Val: o.src}}, o.attrs...)
		nodes = append(nodes, element(atom.Script, attrs))
	}
	return replace(o.elem, nodes...)
}

// iconOutput replaces the asset link with a hashed icon link.
type iconOutput struct {
	elem  *html.Node
	href  string
	attrs []html.Attribute
}

func (o *iconOutput) output() {}

func (o *iconOutput) Finalize(_ *html.Node) error {
	attrs := append([]html.Attribute{{Key: "rel", Val: "icon"}, {Key: "href", Val: o.href}}, o.attrs...)
	return replace(o.elem, element(atom.Link, attrs))
}

// inlineOutput replaces the asset link with the asset's contents.
type inlineOutput struct {
	elem    *html.Node
	tag     atom.Atom
	attrs   []html.Attribute
	content string
}

func (o *inlineOutput) output() {}

func (o *inlineOutput) Finalize(_ *html.Node) error {
	n := element(o.tag, o.attrs)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: o.content})
	return replace(o.elem, n)
}

// removeOutput drops the asset link from the document.
type removeOutput struct {
	elem *html.Node
}

func (o *removeOutput) output() {}

func (o *removeOutput) Finalize(_ *html.Node) error {
	return replace(o.elem)
}

// headScriptOutput appends an inline script to the document head.
type headScriptOutput struct {
	content string
}

func (o *headScriptOutput) output() {}

func (o *headScriptOutput) Finalize(doc *html.Node) error {
	script := element(atom.Script, nil)
	script.AppendChild(&html.Node{Type: html.TextNode, Data: o.content})
	ensureHead(doc).AppendChild(script)
	return nil
}

// noOutput leaves the document untouched.
type noOutput struct{}

func (noOutput) output() {}

func (noOutput) Finalize(_ *html.Node) error {
	return nil
}

func replace(old *html.Node, nodes ...*html.Node) error {
	parent := old.Parent
	if parent == nil {
		return domain.ErrElementDetached
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
	return nil
}

func element(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func stylesheetLink(href string, extra []html.Attribute) *html.Node {
	attrs := append([]html.Attribute{{Key: "rel", Val: "stylesheet"}, {Key: "href", Val: href}}, extra...)
	return element(atom.Link, attrs)
}

// ensureHead returns the document's head element, creating it when the
// document has none.
func ensureHead(doc *html.Node) *html.Node {
	var root *html.Node
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.Head:
			return n
		case atom.Html:
			if root == nil {
				root = n
			}
		}
	}

	head := element(atom.Head, nil)
	if root == nil {
		doc.AppendChild(head)
		return head
	}
	root.InsertBefore(head, root.FirstChild)
	return head
}
