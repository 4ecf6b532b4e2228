package jetjson

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Parsed documents are freely readable from many goroutines as long as
// nothing mutates them; parsing itself is also safe to run concurrently on
// separate inputs (each parse owns its state, the pool hands instances out
// exclusively).
func TestConcurrentReaders(t *testing.T) {
	data := []byte(`{"users":[{"id":1,"name":"alice"},{"id":2,"name":"bob"}],"total":2}`)
	doc, err := Parse(data, Options{})
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for j := 0; j < 200; j++ {
				n, err := doc.Root().Pointer(Key("users"), Index(1), Key("name"))
				if err != nil {
					return err
				}
				if s, _ := n.Str(); s != "bob" {
					t.Errorf("unexpected value %q", s)
				}
				if _, err := Serialize(doc, Options{}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestConcurrentParsing(t *testing.T) {
	inputs := [][]byte{
		[]byte(`{"a":[1,2,3]}`),
		[]byte(`[true,false,null]`),
		[]byte(`"just a string"`),
		[]byte(`{"nested":{"deep":{"deeper":[{}]}}}`),
	}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		input := inputs[i%len(inputs)]
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				doc, err := Parse(input, Options{})
				if err != nil {
					return err
				}
				if _, err := Serialize(doc, Options{}); err != nil {
					return err
				}
				if _, err := Get(input, Options{}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
