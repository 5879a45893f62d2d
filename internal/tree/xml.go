package tree

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

// WriteXML writes the tree rooted at n as indented XML. Elements whose only
// child is text are written on one line.
func WriteXML(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, n, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node, depth int) error {
	switch n.Type {
	case DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := writeNode(w, c, depth); err != nil {
				return err
			}
		}
		return nil
	case TextNode:
		w.WriteString(strings.Repeat("  ", depth))
		if err := xml.EscapeText(w, []byte(n.Data)); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}

	w.WriteString(strings.Repeat("  ", depth))
	w.WriteByte('<')
	w.WriteString(n.Tag)
	for _, a := range n.Attributes() {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
			return err
		}
		w.WriteByte('"')
	}

	switch {
	case n.FirstChild == nil:
		_, err := w.WriteString("/>\n")
		return err
	case n.FirstChild == n.LastChild && n.FirstChild.Type == TextNode:
		w.WriteByte('>')
		if err := xml.EscapeText(w, []byte(n.FirstChild.Data)); err != nil {
			return err
		}
	default:
		w.WriteString(">\n")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := writeNode(w, c, depth+1); err != nil {
				return err
			}
		}
		w.WriteString(strings.Repeat("  ", depth))
	}
	w.WriteString("</")
	w.WriteString(n.Tag)
	_, err := w.WriteString(">\n")
	return err
}
