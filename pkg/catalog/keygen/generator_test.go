package keygen_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegoodstr/storefront/pkg/catalog/keygen"
)

func TestNewID(t *testing.T) {
	g := keygen.New()

	t.Run("Length", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			assert.Len(t, g.NewID(), keygen.DefaultSize)
		}
	})

	t.Run("Alphabet", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			id := g.NewID()
			for _, c := range id {
				assert.True(t, strings.ContainsRune(keygen.DefaultAlphabet, c),
					"unexpected character %q in id %q", c, id)
			}
		}
	})

	t.Run("Uniqueness", func(t *testing.T) {
		const n = 5000
		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			id := g.NewID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %q after %d generations", id, i)
			seen[id] = struct{}{}
		}
	})
}

func TestNewKey(t *testing.T) {
	g := keygen.New()

	key := g.NewKey("img_")
	assert.True(t, strings.HasPrefix(key, "img_"))
	assert.Len(t, key, len("img_")+keygen.DefaultSize)
}

func TestNewWithAlphabet(t *testing.T) {
	tests := []struct {
		name        string
		alphabet    string
		size        int
		expectError bool
	}{
		{name: "valid", alphabet: "abc123", size: 8, expectError: false},
		{name: "alphabet too short", alphabet: "a", size: 8, expectError: true},
		{name: "non-positive size", alphabet: "abc123", size: 0, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := keygen.NewWithAlphabet(tt.alphabet, tt.size)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, g)
			} else {
				require.NoError(t, err)
				assert.Len(t, g.NewID(), tt.size)
			}
		})
	}
}

func TestConcurrentGeneration(t *testing.T) {
	g := keygen.New()

	const workers = 50
	const perWorker = 100

	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ids <- g.NewID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}
