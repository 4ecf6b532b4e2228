package jetjson

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name    string            `json:"name"`
	Age     int               `json:"age"`
	Email   string            `json:"email,omitempty"`
	Active  bool              `json:"active"`
	Score   float64           `json:"score"`
	Tags    []string          `json:"tags"`
	Meta    map[string]string `json:"meta,omitempty"`
	Ignored string            `json:"-"`
	private string
}

func TestMarshalMatchesEncodingJSON(t *testing.T) {
	inputs := []interface{}{
		nil,
		true,
		int64(-5),
		uint64(5),
		3.25,
		"héllo\n\"quoted\"",
		[]int{1, 2, 3},
		map[string]int{"one": 1},
		testStruct{
			Name:   "alice",
			Age:    30,
			Active: true,
			Score:  1.5,
			Tags:   []string{"a", "b"},
		},
		[]byte{0xDE, 0xAD},
	}

	for _, in := range inputs {
		got, err := Marshal(in)
		require.NoError(t, err)
		want, err := json.Marshal(in)
		require.NoError(t, err)

		// Compare as values: map iteration order differs.
		var gv, wv interface{}
		require.NoError(t, json.Unmarshal(got, &gv), "output: %s", got)
		require.NoError(t, json.Unmarshal(want, &wv))
		if diff := cmp.Diff(wv, gv); diff != "" {
			t.Errorf("Marshal(%#v) mismatch (-encoding/json +jetjson):\n%s", in, diff)
		}
	}
}

func TestMarshalOmitEmpty(t *testing.T) {
	out, err := Marshal(testStruct{Name: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "email")
	assert.NotContains(t, string(out), "meta")
	assert.NotContains(t, string(out), "Ignored")
	assert.NotContains(t, string(out), "private")
}

func TestUnmarshalStruct(t *testing.T) {
	data := []byte(`{
		"name": "bob",
		"age": 41,
		"active": true,
		"score": 2.5,
		"tags": ["x", "y"],
		"meta": {"k": "v"},
		"unknown": [1, 2]
	}`)
	var got testStruct
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, testStruct{
		Name:   "bob",
		Age:    41,
		Active: true,
		Score:  2.5,
		Tags:   []string{"x", "y"},
		Meta:   map[string]string{"k": "v"},
	}, got)
}

func TestUnmarshalInterface(t *testing.T) {
	var got interface{}
	require.NoError(t, Unmarshal([]byte(`{"a":[1,"s",null]}`), &got))
	want := map[string]any{"a": []any{int64(1), "s", nil}}
	assert.Equal(t, want, got)
}

func TestUnmarshalPointerAndBytes(t *testing.T) {
	var pi *int
	require.NoError(t, Unmarshal([]byte(`3`), &pi))
	require.NotNil(t, pi)
	assert.Equal(t, 3, *pi)

	require.NoError(t, Unmarshal([]byte(`null`), &pi))
	assert.Nil(t, pi)

	var raw []byte
	require.NoError(t, Unmarshal([]byte(`"3q0="`), &raw))
	assert.Equal(t, []byte{0xDE, 0xAD}, raw)
}

func TestUnmarshalErrors(t *testing.T) {
	var s string
	assert.Error(t, Unmarshal([]byte(`5`), &s))
	assert.Error(t, Unmarshal([]byte(`{"a":`), &s))

	var notPtr string
	assert.Error(t, Unmarshal([]byte(`"x"`), notPtr))
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := Marshal(map[string]float64{"inf": math.Inf(1)})
	assert.Error(t, err)
	_, err = Marshal(math.NaN())
	assert.Error(t, err)
}
