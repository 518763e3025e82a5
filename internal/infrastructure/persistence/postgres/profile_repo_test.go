package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountDistinctPairs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Zero(t, countDistinctPairs(nil))
	})

	t.Run("distinct pairs", func(t *testing.T) {
		assert.Equal(t, 2, countDistinctPairs([][2]string{
			{"alice", "bob"},
			{"alice", "carol"},
		}))
	})

	t.Run("reversed row counts once", func(t *testing.T) {
		// The same logical connection stored in both directions.
		assert.Equal(t, 1, countDistinctPairs([][2]string{
			{"alice", "bob"},
			{"bob", "alice"},
		}))
	})

	t.Run("exact duplicate counts once", func(t *testing.T) {
		assert.Equal(t, 1, countDistinctPairs([][2]string{
			{"alice", "bob"},
			{"alice", "bob"},
		}))
	})

	t.Run("mixed", func(t *testing.T) {
		assert.Equal(t, 3, countDistinctPairs([][2]string{
			{"alice", "bob"},
			{"bob", "alice"},
			{"alice", "carol"},
			{"dave", "alice"},
		}))
	})
}
