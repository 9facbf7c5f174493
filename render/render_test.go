package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	docblock "github.com/dpotapov/go-docblock"
)

const testDocblock = `/**
 * Summary.
 *
 * @param {string} $x The <b>x</b> value.
 * @return int
 */`

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "XML", " html ", "msgpack"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("yaml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWrite_JSON(t *testing.T) {
	doc := docblock.Parse(testDocblock, nil)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, doc))

	var got docblock.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(&got, doc); diff != "" {
		t.Errorf("JSON diff (-got +want):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, Write(&buf, JSON, docblock.Parse("/** */", nil)))
	assert.JSONEq(t, `{"summary":{"value":""},"description":[],"tags":[]}`, buf.String())
}

func TestWrite_MsgPack(t *testing.T) {
	doc := docblock.Parse(testDocblock, nil)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, MsgPack, doc))

	var got docblock.Document
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(&got, doc, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("msgpack diff (-got +want):\n%s", diff)
	}
}

func TestWrite_XML(t *testing.T) {
	doc := docblock.Parse(testDocblock, nil)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XML, doc))

	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(buf.Bytes()))

	summary := x.FindElement("/docblock/summary")
	require.NotNil(t, summary)
	assert.Equal(t, "Summary.", summary.Text())
	assert.Equal(t, "1", summary.SelectAttrValue("line", ""))
	assert.Equal(t, "3", summary.SelectAttrValue("column", ""))

	tags := x.FindElements("/docblock/tags/tag")
	require.Len(t, tags, 2)
	assert.Equal(t, "@param", tags[0].SelectAttrValue("name", ""))
	assert.Equal(t, "{string}", tags[0].FindElement("type").Text())
	assert.Equal(t, "$x", tags[0].FindElement("descriptor").Text())
	assert.Equal(t, "The <b>x</b> value.", tags[0].FindElement("description/line").Text())
	assert.Nil(t, tags[1].FindElement("descriptor"))
}

func TestWrite_XMLMany(t *testing.T) {
	one := docblock.Parse("/** One. */", nil)
	two := docblock.Parse("/** Two. */", nil)

	tests := []struct {
		name string
		docs []*docblock.Document
	}{
		{"empty", []*docblock.Document{}},
		{"single", []*docblock.Document{one}},
		{"several", []*docblock.Document{one, two}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, XML, tt.docs))

			x := etree.NewDocument()
			require.NoError(t, x.ReadFromBytes(buf.Bytes()))
			require.NotNil(t, x.Root())
			assert.Equal(t, "docblocks", x.Root().Tag)
			assert.Len(t, x.FindElements("/docblocks/docblock"), len(tt.docs))
		})
	}
}

func TestWrite_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, HTML, docblock.Parse(testDocblock, nil)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<div class="docblocks"><table class="docblock">`), out)
	assert.Contains(t, out, "<td>summary</td><td>Summary.</td><td>2:4 (7)</td><td>2:12 (15)</td>")
	assert.Contains(t, out, "<td>{string}</td>")
	assert.Contains(t, out, "The &lt;b&gt;x&lt;/b&gt; value.")
	assert.NotContains(t, out, "<b>")
}

func TestWrite_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, JSON, "text"))
	require.ErrorIs(t, Write(&buf, Format("csv"), docblock.Parse("", nil)), ErrUnknownFormat)
	assert.Equal(t, "text/html; charset=utf-8", ContentType(HTML))
	assert.Equal(t, "application/json", ContentType(JSON))
}
