package models

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		raw  string
		want StringList
	}{
		{raw: "", want: StringList{}},
		{raw: "chili, Beef ,spicy", want: StringList{"chili", "beef", "spicy"}},
		{raw: "a,,A, a ,b", want: StringList{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
	assert.Equal(t, "chili, beef", StringList{"chili", "beef"}.String())
}

func TestStringListScanAndValue(t *testing.T) {
	v, err := StringList{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["x"]`)))
	assert.Equal(t, StringList{"x"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan(""))
	assert.Equal(t, StringList{}, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}

func TestRecipeVisibleTo(t *testing.T) {
	author := &User{ID: uuid.New()}
	other := &User{ID: uuid.New()}

	public := &Recipe{AuthorID: author.ID, Shared: Public}
	assert.True(t, public.VisibleTo(nil))
	assert.True(t, public.VisibleTo(other))

	private := &Recipe{AuthorID: author.ID, Shared: Private}
	assert.True(t, private.IsPrivate())
	assert.True(t, private.VisibleTo(author))
	assert.False(t, private.VisibleTo(other))
	assert.False(t, private.VisibleTo(nil))
}

func TestRatingAverage(t *testing.T) {
	var missing *Rating
	assert.Zero(t, missing.Average())
	assert.Zero(t, (&Rating{}).Average())
	assert.Equal(t, 3.5, (&Rating{Votes: 2, Score: 7}).Average())
}

func TestEmbed(t *testing.T) {
	vec := Embed("Tasty chili, with beef and beans").Slice()
	require.Len(t, vec, EmbeddingDimensions)

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)

	assert.Equal(t, vec, Embed("TASTY chili with BEEF and beans!").Slice())
	assert.Equal(t, make([]float32, EmbeddingDimensions), Embed("  ...  ").Slice())
}

func TestBeforeSaveRefreshesEmbedding(t *testing.T) {
	r := &Recipe{Title: "Soup", Tags: StringList{"warm"}}
	require.NoError(t, r.BeforeSave(nil))
	assert.Equal(t, Embed(r.SearchText()).Slice(), r.Embedding.Slice())

	require.NoError(t, r.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, r.ID)
}
