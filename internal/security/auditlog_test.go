package security

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_AppendOrdering(t *testing.T) {
	log := NewAuditLog()

	log.Append("first", CategoryInfo)
	log.Append("second", CategoryWarning)
	log.Append("third", CategoryError)

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message, "most recent entry should be first")
	assert.Equal(t, "first", entries[2].Message)
	assert.Equal(t, CategoryError, entries[0].Category)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestAuditLog_CapacityEviction(t *testing.T) {
	log := NewAuditLog()

	for i := 0; i < 105; i++ {
		log.Append(fmt.Sprintf("entry %d", i), CategoryInfo)
	}

	entries := log.Entries()
	require.Len(t, entries, 100, "log should hold exactly the cap")
	assert.Equal(t, "entry 104", entries[0].Message, "most recent append should be first")
	assert.Equal(t, "entry 5", entries[99].Message, "oldest five entries should be evicted")
}

func TestAuditLog_Clear(t *testing.T) {
	log := NewAuditLog()
	log.Append("something", CategoryError)
	log.Append("else", CategoryWarning)

	log.Clear()

	entries := log.Entries()
	require.Len(t, entries, 1, "clear should leave a single synthetic entry")
	assert.Equal(t, CategoryInfo, entries[0].Category)
	assert.Contains(t, entries[0].Message, "cleared")
}

func TestAuditLog_EntriesReturnsSnapshot(t *testing.T) {
	log := NewAuditLog()
	log.Append("original", CategoryInfo)

	entries := log.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "original", log.Entries()[0].Message, "snapshot mutation must not affect the log")
}

func TestAuditLog_ConcurrentAppend(t *testing.T) {
	log := NewAuditLog()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			log.Append(fmt.Sprintf("entry %d", n), CategoryInfo)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines, log.Len())
}
