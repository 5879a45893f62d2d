// Package tree implements the generic labeled tree that syntax trees are
// projected into, and an XPath navigator over it.
package tree

import (
	"strconv"
	"strings"
)

// NodeType is the type of a Node.
type NodeType uint

const (
	// DocumentNode is the synthetic root of a tree.
	DocumentNode NodeType = iota
	// ElementNode is a tagged element.
	ElementNode
	// TextNode is literal text inside an element.
	TextNode
)

// IDAttr is the reserved attribute name under which a backreference is
// exposed to queries.
const IDAttr = "__id__"

// Attr is an element attribute.
type Attr struct {
	Name  string
	Value string
}

// Backref is an optional backreference id. The zero value has no id.
type Backref struct {
	id int
	ok bool
}

// RefTo returns a Backref holding id.
func RefTo(id int) Backref {
	return Backref{id: id, ok: true}
}

// ID returns the id and whether there is one.
func (b Backref) ID() (int, bool) {
	return b.id, b.ok
}

// Node is an element, text or document node.
type Node struct {
	Type NodeType
	// Tag is the element name.
	Tag string
	// Data is the content of a text node.
	Data  string
	Attrs []Attr
	Ref   Backref

	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node
}

func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag}
}

func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	c.PrevSibling = n.LastChild
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
}

// SetText replaces the children of n with a single text node.
func (n *Node) SetText(s string) {
	n.FirstChild, n.LastChild = nil, nil
	n.AppendChild(NewText(s))
}

// SetAttr sets or replaces the attribute name.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Attr looks up an attribute, including the reserved backreference one.
func (n *Node) Attr(name string) (string, bool) {
	for i := 0; i < n.attrCount(); i++ {
		if a := n.attrAt(i); a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns all attributes of n; the backreference, if any, comes
// last under IDAttr.
func (n *Node) Attributes() []Attr {
	attrs := make([]Attr, 0, n.attrCount())
	for i := 0; i < n.attrCount(); i++ {
		attrs = append(attrs, n.attrAt(i))
	}
	return attrs
}

func (n *Node) attrCount() int {
	if _, ok := n.Ref.ID(); ok {
		return len(n.Attrs) + 1
	}
	return len(n.Attrs)
}

func (n *Node) attrAt(i int) Attr {
	if i < len(n.Attrs) {
		return n.Attrs[i]
	}
	id, _ := n.Ref.ID()
	return Attr{Name: IDAttr, Value: strconv.Itoa(id)}
}

// Elements returns the element children of n in order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// InnerText concatenates the text of n and all its descendants.
func (n *Node) InnerText() string {
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == TextNode {
				b.WriteString(c.Data)
			} else {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// Walk calls fn for n and every descendant in document order.
func Walk(n *Node, fn func(*Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}
