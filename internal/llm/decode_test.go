package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keywordsSchema = MustSchema(`{
	"type": "object",
	"required": ["keywords"],
	"properties": {"keywords": {"type": "array"}}
}`)

type kwOut struct {
	Keywords []struct {
		Text string `json:"text"`
	} `json:"keywords"`
}

func TestDecodeObjectStripsFencesAndProse(t *testing.T) {
	in := "Sure! Here you go:\n```json\n{\"keywords\":[{\"text\":\"Go\"}]}\n```\nHope this helps."
	var out kwOut
	require.NoError(t, DecodeObject(in, keywordsSchema, &out))
	require.Len(t, out.Keywords, 1)
	assert.Equal(t, "Go", out.Keywords[0].Text)
}

func TestDecodeObjectErrors(t *testing.T) {
	var out kwOut
	assert.ErrorIs(t, DecodeObject("no braces here", keywordsSchema, &out), ErrNoJSON)
	assert.ErrorIs(t, DecodeObject(`{"keywords": [`+"\n}", keywordsSchema, &out), ErrMalformed)
	assert.ErrorIs(t, DecodeObject(`{"skills": []}`, keywordsSchema, &out), ErrSchema)
	assert.ErrorIs(t, DecodeObject(`{"keywords": "Go"}`, keywordsSchema, &out), ErrSchema)

	assert.True(t, IsParseError(DecodeObject("", nil, &out)))
}

func TestDecodeObjectWithoutSchema(t *testing.T) {
	var out map[string]any
	require.NoError(t, DecodeObject(`{"a":1}`, nil, &out))
	assert.Equal(t, float64(1), out["a"])
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock(`  {"a":1}  `))
}

func TestUnconfiguredClient(t *testing.T) {
	c, err := New(context.Background(), "  ", "")
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), "hi", Options{})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	require.NoError(t, c.Close())
}
