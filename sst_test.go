package sheetforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedStringTableDedup(t *testing.T) {
	sst := NewSharedStringTable()
	i1 := sst.Intern("hello")
	i2 := sst.Intern("world")
	i3 := sst.Intern("hello")

	assert.Equal(t, i1, i3)
	assert.NotEqual(t, i1, i2)
	assert.Equal(t, 2, sst.UniqueCount())
	assert.Equal(t, 3, sst.Count())
	assert.Equal(t, []string{"hello", "world"}, sst.Entries())
}

func TestSharedStringTableInsertionOrder(t *testing.T) {
	sst := NewSharedStringTable()
	sst.Intern("c")
	sst.Intern("a")
	sst.Intern("b")
	sst.Intern("a")

	assert.Equal(t, []string{"c", "a", "b"}, sst.Entries())
}

func TestSharedStringTableRichVsPlainAreDistinctEntries(t *testing.T) {
	sst := NewSharedStringTable()
	plain := sst.Intern("hello")
	rich := sst.InternRich("<r><t>hello</t></r>")

	assert.NotEqual(t, plain, rich)
	assert.Equal(t, 2, sst.UniqueCount())

	entries := sst.rawEntries()
	assert.False(t, entries[plain].rich)
	assert.True(t, entries[rich].rich)
}

func TestSharedStringTableRichInternDedupsSeparatelyFromPlain(t *testing.T) {
	sst := NewSharedStringTable()
	r1 := sst.InternRich("<r><t>x</t></r>")
	r2 := sst.InternRich("<r><t>x</t></r>")
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, sst.UniqueCount())
	assert.Equal(t, 2, sst.Count())
}

func TestNeedsPreserveSpace(t *testing.T) {
	assert.False(t, needsPreserveSpace(""))
	assert.False(t, needsPreserveSpace("hello"))
	assert.True(t, needsPreserveSpace(" hello"))
	assert.True(t, needsPreserveSpace("hello "))
	assert.True(t, needsPreserveSpace("\thello\t"))
}
