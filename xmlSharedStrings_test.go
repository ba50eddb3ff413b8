package sheetforge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSharedStringsXMLCountsAndUniqueCounts(t *testing.T) {
	sst := NewSharedStringTable()
	sst.Intern("alpha")
	sst.Intern("alpha")
	sst.Intern("beta")

	out := string(buildSharedStringsXML(sst))
	assert.Contains(t, out, `count="3"`)
	assert.Contains(t, out, `uniqueCount="2"`)
}

func TestBuildSharedStringsXMLPlainEntryEscaped(t *testing.T) {
	sst := NewSharedStringTable()
	sst.Intern("a & b")

	out := string(buildSharedStringsXML(sst))
	assert.Contains(t, out, "<si><t>a &amp; b</t></si>")
}

func TestBuildSharedStringsXMLRichEntryEmittedRaw(t *testing.T) {
	sst := NewSharedStringTable()
	sst.InternRich(`<r><t>bold</t></r>`)

	out := string(buildSharedStringsXML(sst))
	assert.Contains(t, out, "<si><r><t>bold</t></r></si>")
	assert.False(t, strings.Contains(out, "&lt;r&gt;"))
}

func TestBuildSharedStringsXMLPreservesInsertionOrder(t *testing.T) {
	sst := NewSharedStringTable()
	sst.Intern("first")
	sst.Intern("second")

	out := string(buildSharedStringsXML(sst))
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}
