package tree

import "github.com/antchfx/xpath"

var _ xpath.NodeNavigator = (*Navigator)(nil)

// Navigator walks a tree for the XPath evaluator. When positioned on an
// attribute, curr is the owning element and attr its index.
type Navigator struct {
	root, curr *Node
	attr       int
}

// NewNavigator returns a Navigator positioned at doc.
func NewNavigator(doc *Node) *Navigator {
	return &Navigator{root: doc, curr: doc, attr: -1}
}

// Current returns the node the navigator is on. For an attribute this is
// the owning element.
func (n *Navigator) Current() *Node {
	return n.curr
}

// CurrentAttr returns the attribute the navigator is on, if any.
func (n *Navigator) CurrentAttr() (Attr, bool) {
	if n.attr == -1 {
		return Attr{}, false
	}
	return n.curr.attrAt(n.attr), true
}

func (n *Navigator) NodeType() xpath.NodeType {
	switch n.curr.Type {
	case DocumentNode:
		return xpath.RootNode
	case TextNode:
		return xpath.TextNode
	default:
		if n.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	}
}

func (n *Navigator) LocalName() string {
	if n.attr != -1 {
		return n.curr.attrAt(n.attr).Name
	}
	if n.curr.Type == ElementNode {
		return n.curr.Tag
	}
	return ""
}

func (n *Navigator) Prefix() string {
	return ""
}

func (n *Navigator) Value() string {
	if n.attr != -1 {
		return n.curr.attrAt(n.attr).Value
	}
	return n.curr.InnerText()
}

func (n *Navigator) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *Navigator) MoveToRoot() {
	n.curr = n.root
	n.attr = -1
}

func (n *Navigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		return true
	}
	if n.curr.Parent == nil {
		return false
	}
	n.curr = n.curr.Parent
	return true
}

func (n *Navigator) MoveToNextAttribute() bool {
	if n.curr.Type != ElementNode || n.attr >= n.curr.attrCount()-1 {
		return false
	}
	n.attr++
	return true
}

func (n *Navigator) MoveToChild() bool {
	if n.attr != -1 || n.curr.FirstChild == nil {
		return false
	}
	n.curr = n.curr.FirstChild
	return true
}

func (n *Navigator) MoveToFirst() bool {
	if n.attr != -1 || n.curr.PrevSibling == nil {
		return false
	}
	for n.curr.PrevSibling != nil {
		n.curr = n.curr.PrevSibling
	}
	return true
}

func (n *Navigator) MoveToNext() bool {
	if n.attr != -1 || n.curr.NextSibling == nil {
		return false
	}
	n.curr = n.curr.NextSibling
	return true
}

func (n *Navigator) MoveToPrevious() bool {
	if n.attr != -1 || n.curr.PrevSibling == nil {
		return false
	}
	n.curr = n.curr.PrevSibling
	return true
}

func (n *Navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*Navigator)
	if !ok || o.root != n.root {
		return false
	}
	n.curr = o.curr
	n.attr = o.attr
	return true
}
