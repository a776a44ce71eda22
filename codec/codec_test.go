package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Index      int       `json:"index"`
	Similarity []float64 `json:"cosine_similarity"`
	Concept    []string  `json:"concept"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	input := []byte(`[{"index": 7, "cosine_similarity": [0.61, 0.45], "concept": ["dog", "wolf"], "layer": 6}]`)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var got []record
			require.NoError(t, c.Unmarshal(input, &got))
			assert.Equal(t, []record{{Index: 7, Similarity: []float64{0.61, 0.45}, Concept: []string{"dog", "wolf"}}}, got)

			out, err := c.Marshal(got[0])
			require.NoError(t, err)
			assert.JSONEq(t, `{"index":7,"cosine_similarity":[0.61,0.45],"concept":["dog","wolf"]}`, string(out))
		})
	}
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(MustMarshal(nil, map[string]int{"a": 1})))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}
