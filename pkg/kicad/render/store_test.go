package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendCopies(t *testing.T) {
	s := NewStore()
	data := []byte("page")
	s.Append(data)
	data[0] = 'x'

	plots := s.Plots()
	require.Len(t, plots, 1)
	assert.Equal(t, "page", string(plots[0]))

	plots[0][0] = 'y'
	assert.Equal(t, "page", string(s.Plots()[0]))
}

func TestStoreConcurrentAppend(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append([]byte{byte(i)})
			_ = s.Len()
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, s.Len())
	seen := make(map[byte]bool)
	for _, p := range s.Plots() {
		seen[p[0]] = true
	}
	assert.Len(t, seen, 64)

	s.Reset()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Plots())
}

func TestDefaultStore(t *testing.T) {
	ResetPlots()
	t.Cleanup(ResetPlots)

	StorePlot([]byte("a"))
	StorePlot([]byte("b"))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, GetPlots())
	assert.Same(t, DefaultStore(), defaultStore)
}
