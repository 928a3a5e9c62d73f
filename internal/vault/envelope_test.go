package vault

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInputRoundTrip(t *testing.T) {
	in := Input{SetSize: 9, CorrectThreshold: 6, CorpusSize: 7776}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Input
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in.SetSize, out.SetSize)
	require.Equal(t, in.CorrectThreshold, out.CorrectThreshold)
	require.Equal(t, in.CorpusSize, out.CorpusSize)
}

func TestInputRejectsUnknownField(t *testing.T) {
	raw := `{"setSize":9,"correctThreshold":6,"corpusSize":7776,"bogus":1}`
	var in Input
	err := json.Unmarshal([]byte(raw), &in)
	require.Error(t, err)
}

func TestInputRejectsMissingField(t *testing.T) {
	raw := `{"setSize":9,"correctThreshold":6}`
	var in Input
	err := json.Unmarshal([]byte(raw), &in)
	require.Error(t, err)
}

func TestInputRejectsDuplicateField(t *testing.T) {
	raw := `{"setSize":9,"setSize":9,"correctThreshold":6,"corpusSize":7776}`
	var in Input
	err := json.Unmarshal([]byte(raw), &in)
	require.Error(t, err)
}

func TestInputParsesRandomBytesHex(t *testing.T) {
	raw := `{"setSize":9,"correctThreshold":6,"corpusSize":7776,"randomBytes":["AABB","CC"]}`
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, in.RandomBytes)
}

func TestParamsRoundTrip(t *testing.T) {
	p := Params{
		SetSize: 9, CorrectThreshold: 6, CorpusSize: 7776,
		Prime: 7789, Extractor: []int{1, 2, 3}, Salt: []byte{0xDE, 0xAD},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.Contains(t, string(data), `"salt":"DEAD"`)

	var out Params
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, p, out)
}

func TestSecretRejectsUnknownAndMissingFields(t *testing.T) {
	good := `{"setSize":1,"correctThreshold":1,"corpusSize":2,"prime":3,"extractor":[1],"salt":"AA","sketch":[1],"hash":"BB"}`
	var s Secret
	require.NoError(t, json.Unmarshal([]byte(good), &s))

	missing := `{"setSize":1,"correctThreshold":1,"corpusSize":2,"prime":3,"extractor":[1],"salt":"AA","sketch":[1]}`
	require.Error(t, json.Unmarshal([]byte(missing), &s))

	unknown := good[:len(good)-1] + `,"extra":1}`
	require.Error(t, json.Unmarshal([]byte(unknown), &s))
}

func TestSecretRoundTrip(t *testing.T) {
	s := Secret{
		Params: Params{
			SetSize: 9, CorrectThreshold: 6, CorpusSize: 7776,
			Prime: 7789, Extractor: []int{1, 2, 3}, Salt: []byte{0xDE, 0xAD},
		},
		Sketch: []int{4, 5},
		Hash:   []byte{0xBE, 0xEF},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out Secret
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, s, out)
}
