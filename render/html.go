package render

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	docblock "github.com/dpotapov/go-docblock"
)

// HTMLNode builds an inspection view of the documents: one table per docblock listing
// every span with its position. Values are emitted as text nodes, never as markup.
func HTMLNode(docs []*docblock.Document) *html.Node {
	root := element(atom.Div, "class", "docblocks")
	for _, d := range docs {
		root.AppendChild(documentTable(d))
	}
	return root
}

func writeHTML(w io.Writer, docs []*docblock.Document) error {
	if err := html.Render(w, HTMLNode(docs)); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func documentTable(doc *docblock.Document) *html.Node {
	table := element(atom.Table, "class", "docblock")

	head := element(atom.Tr)
	for _, h := range []string{"part", "value", "start", "end"} {
		th := element(atom.Th)
		th.AppendChild(text(h))
		head.AppendChild(th)
	}
	thead := element(atom.Thead)
	thead.AppendChild(head)
	table.AppendChild(thead)

	body := element(atom.Tbody)
	if doc.Summary.Position != nil {
		body.AppendChild(spanRow("summary", docblock.TextSpan{Value: doc.Summary.Value, Position: *doc.Summary.Position}))
	}
	for _, l := range doc.Description {
		body.AppendChild(spanRow("description", l))
	}
	for _, t := range doc.Tags {
		body.AppendChild(spanRow("tag", t.Name))
		if t.Type.Value != "" {
			body.AppendChild(spanRow("type", t.Type))
		}
		if t.Descriptor.Value != "" {
			body.AppendChild(spanRow("descriptor", t.Descriptor))
		}
		for _, l := range t.Description {
			body.AppendChild(spanRow("tag description", l))
		}
	}
	table.AppendChild(body)

	return table
}

func spanRow(part string, s docblock.TextSpan) *html.Node {
	tr := element(atom.Tr)
	for _, cell := range []string{part, s.Value, pointString(s.Position.Start), pointString(s.Position.End)} {
		td := element(atom.Td)
		td.AppendChild(text(cell))
		tr.AppendChild(td)
	}
	return tr
}

// pointString formats a point as 1-based line:column followed by the offset.
func pointString(p docblock.Point) string {
	return fmt.Sprintf("%d:%d (%d)", p.Line+1, p.Column+1, p.Offset)
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
