package sgml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOrderedMapFlattensAttributesAndText(t *testing.T) {
	doc := mustParse(t, `<book lang="en"><title>Dune</title></book>`)
	book := doc.Filter(NameIs("book"), -1)[0]

	om := ToOrderedMap(book)
	assert.Equal(t, "en", om.Get("@lang"))

	title, ok := om.Get("title").(*OrderedMap)
	require.True(t, ok)
	assert.Equal(t, "Dune", title.Get("#text"))
}

func TestToOrderedMapGroupsRepeatedChildren(t *testing.T) {
	doc := mustParse(t, `<shelf><book><title>Dune</title></book><book><title>Foundation</title></book></shelf>`)
	shelf := doc.Filter(NameIs("shelf"), -1)[0]

	om := ToOrderedMap(shelf)
	books, ok := om.Get("book").([]any)
	require.True(t, ok)
	assert.Len(t, books, 2)
}

func TestToJSON(t *testing.T) {
	doc := mustParse(t, `<book lang="en">Dune</book>`)
	book := doc.Filter(NameIs("book"), -1)[0]

	j, err := ToJSON(book)
	require.NoError(t, err)
	assert.Contains(t, j, `"@lang":"en"`)
	assert.Contains(t, j, `"#text":"Dune"`)
}

func TestToCSV(t *testing.T) {
	doc := mustParse(t, `<shelf>
		<book><title>Dune</title><year>1965</year></book>
		<book><title>Foundation</title><year>1951</year></book>
	</shelf>`)
	rows := doc.Filter(NameIs("book"), -1)

	var buf strings.Builder
	require.NoError(t, ToCSV(&buf, rows))

	out := buf.String()
	assert.Contains(t, out, "title,year")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "1965")
}
