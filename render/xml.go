package render

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	docblock "github.com/dpotapov/go-docblock"
)

// XMLDocument builds the XML tree of a document, rooted at <docblock>.
func XMLDocument(doc *docblock.Document) *etree.Document {
	x := newXMLDocument()
	addDocblock(&x.Element, doc)
	x.Indent(2)
	return x
}

// XMLDocuments builds the XML tree of a list of documents, rooted at <docblocks> whatever
// the length of the list.
func XMLDocuments(docs []*docblock.Document) *etree.Document {
	x := newXMLDocument()
	root := x.CreateElement("docblocks")
	for _, d := range docs {
		addDocblock(root, d)
	}
	x.Indent(2)
	return x
}

func newXMLDocument() *etree.Document {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return x
}

func writeXML(w io.Writer, docs []*docblock.Document, list bool) error {
	x := XMLDocuments(docs)
	if !list {
		x = XMLDocument(docs[0])
	}
	_, err := x.WriteTo(w)
	return err
}

func addDocblock(parent *etree.Element, doc *docblock.Document) {
	el := parent.CreateElement("docblock")

	summary := el.CreateElement("summary")
	if doc.Summary.Position != nil {
		setPosition(summary, *doc.Summary.Position)
	}
	summary.SetText(doc.Summary.Value)

	addLines(el.CreateElement("description"), doc.Description)

	tags := el.CreateElement("tags")
	for _, t := range doc.Tags {
		tag := tags.CreateElement("tag")
		tag.CreateAttr("name", t.Name.Value)
		setPosition(tag, t.Position)

		addSpan(tag, "name", t.Name)
		if t.Type.Value != "" {
			addSpan(tag, "type", t.Type)
		}
		if t.Descriptor.Value != "" {
			addSpan(tag, "descriptor", t.Descriptor)
		}
		addLines(tag.CreateElement("description"), t.Description)
	}
}

func addLines(parent *etree.Element, lines []docblock.TextSpan) {
	for _, l := range lines {
		addSpan(parent, "line", l)
	}
}

func addSpan(parent *etree.Element, name string, s docblock.TextSpan) {
	el := parent.CreateElement(name)
	setPosition(el, s.Position)
	el.SetText(s.Value)
}

func setPosition(el *etree.Element, p docblock.Position) {
	el.CreateAttr("line", strconv.Itoa(p.Start.Line))
	el.CreateAttr("column", strconv.Itoa(p.Start.Column))
	el.CreateAttr("offset", strconv.Itoa(p.Start.Offset))
	el.CreateAttr("end-line", strconv.Itoa(p.End.Line))
	el.CreateAttr("end-column", strconv.Itoa(p.End.Column))
	el.CreateAttr("end-offset", strconv.Itoa(p.End.Offset))
}
