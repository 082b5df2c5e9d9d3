package jsonpath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree unmarshals a JSON document into the generic any shape Get operates on.
func tree(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParseFieldChain(t *testing.T) {
	segs, err := Parse(".result.ProposeGasPrice")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "result", segs[0].Key)
	assert.Equal(t, "ProposeGasPrice", segs[1].Key)
}

func TestParseMixedSegments(t *testing.T) {
	segs, err := Parse(`.abc[0]["def"].ghi`)
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, Segment{Key: "abc"}, segs[0])
	assert.Equal(t, Segment{Index: 0, IsIndex: true}, segs[1])
	assert.Equal(t, Segment{Key: "def"}, segs[2])
	assert.Equal(t, Segment{Key: "ghi"}, segs[3])
}

func TestParseSingleQuotedKey(t *testing.T) {
	segs, err := Parse(`['max fee']`)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "max fee", segs[0].Key)
}

func TestParseUnquotedBracketKey(t *testing.T) {
	segs, err := Parse(`[ProposeGasPrice]`)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "ProposeGasPrice", segs[0].Key)
	assert.False(t, segs[0].IsIndex)
}

func TestParseBareIntegerIsIndex(t *testing.T) {
	segs, err := Parse(`[12]`)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.True(t, segs[0].IsIndex)
	assert.Equal(t, 12, segs[0].Index)
}

func TestParseMalformed(t *testing.T) {
	malformedPaths := []string{
		"",            // empty
		"abc.def",     // no leading dot
		".",           // dot with no identifier
		".abc.",       // trailing dot
		"[",           // unterminated bracket
		"[]",          // empty bracket
		`["abc]`,      // unterminated quote
		`["abc"x]`,    // junk after closing quote
		".abc[0",      // unterminated index
		" .abc",       // leading whitespace
	}
	for _, p := range malformedPaths {
		_, err := Parse(p)
		require.Error(t, err, "path %q must be rejected", p)
		assert.Contains(t, err.Error(), "malformed path expression")
	}
}

func TestParseErrorNamesOffendingPath(t *testing.T) {
	_, err := Parse("abc.def")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"abc.def"`)
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestGetNestedValue(t *testing.T) {
	doc := tree(t, `{"abc":[{"def":{"ghi":"hello"}}]}`)

	v, found, err := Get(doc, `.abc[0]["def"].ghi`)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", v)
}

func TestGetMissingKeyIsAbsentNotError(t *testing.T) {
	doc := tree(t, `{"abc":[{"def":{"ghi":"hello"}}]}`)

	v, found, err := Get(doc, `.abc[0]["invalid"].ghi`)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestGetMalformedPathIsError(t *testing.T) {
	doc := tree(t, `{"abc":1}`)

	_, _, err := Get(doc, "abc.def")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed path expression")
}

func TestGetIndexOutOfRange(t *testing.T) {
	doc := tree(t, `{"abc":["only"]}`)

	_, found, err := Get(doc, ".abc[3]")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetDescendIntoScalar(t *testing.T) {
	doc := tree(t, `{"abc":42}`)

	_, found, err := Get(doc, ".abc.def")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetIndexOnObject(t *testing.T) {
	doc := tree(t, `{"abc":{"0":"zero"}}`)

	// A bare integer is an array index, not an object key.
	_, found, err := Get(doc, ".abc[0]")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetEtherscanShape(t *testing.T) {
	doc := tree(t, `{"status":"1","result":{"ProposeGasPrice":"39","FastGasPrice":"41"}}`)

	v, found, err := Get(doc, ".result.ProposeGasPrice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "39", v)
}

func TestGetNumericLeaf(t *testing.T) {
	doc := tree(t, `{"fast":{"maxFee":30.5}}`)

	v, found, err := Get(doc, ".fast.maxFee")
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 30.5, v.(float64), 0.0001)
}
