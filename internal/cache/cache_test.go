package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/company-enricher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(summary string) types.EnrichmentRecord {
	return types.NewEnrichmentRecord(types.Structured{Summary: summary}, "https://acme.com", time.Now())
}

func TestMemory_GetSetHas(t *testing.T) {
	c := NewMemory(0)

	_, ok := c.Get("https://acme.com")
	assert.False(t, ok)
	assert.False(t, c.Has("https://acme.com"))

	rec := record("first")
	c.Set("https://acme.com", rec)

	got, ok := c.Get("https://acme.com")
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.True(t, c.Has("https://acme.com"))
	assert.Equal(t, 1, c.Len())
}

func TestMemory_KeysAreExact(t *testing.T) {
	c := NewMemory(0)
	c.Set("http://x.com", record("x"))

	assert.True(t, c.Has("http://x.com"))
	assert.False(t, c.Has("http://x.com/"))
	assert.False(t, c.Has("HTTP://X.COM"))
}

func TestMemory_SetOverwrites(t *testing.T) {
	c := NewMemory(0)
	c.Set("k", record("first"))
	c.Set("k", record("second"))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "second", got.Summary)
	assert.Equal(t, 1, c.Len())
}

func TestMemory_EntryTimestamp(t *testing.T) {
	c := NewMemory(0)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	c.Set("k", record("x"))

	entry, ok := c.Entry("k")
	require.True(t, ok)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", entry.Timestamp)
}

func TestMemory_NoTTLNeverExpires(t *testing.T) {
	c := NewMemory(0)
	start := time.Now()
	c.now = func() time.Time { return start }
	c.Set("k", record("x"))

	c.now = func() time.Time { return start.Add(24 * 365 * time.Hour) }
	assert.True(t, c.Has("k"))
}

func TestMemory_TTLExpires(t *testing.T) {
	c := NewMemory(time.Minute)
	start := time.Now()
	c.now = func() time.Time { return start }
	c.Set("k", record("x"))

	c.now = func() time.Time { return start.Add(30 * time.Second) }
	assert.True(t, c.Has("k"))

	c.now = func() time.Time { return start.Add(2 * time.Minute) }
	assert.False(t, c.Has("k"))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	c := NewMemory(0)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("https://site-%d.com", i%5)
			c.Set(key, record(key))
			c.Get(key)
			c.Has(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}

func TestMemory_CallersCannotMutateStoredRecord(t *testing.T) {
	c := NewMemory(0)
	rec := types.NewEnrichmentRecord(types.Structured{
		Summary:  "Acme",
		Keywords: []string{"acme.com", "cloud"},
		Signals:  []string{"Expanding team"},
	}, "https://acme.com", time.Now())
	c.Set("https://acme.com", rec)

	rec.Keywords[0] = "changed after set"

	got, ok := c.Get("https://acme.com")
	require.True(t, ok)
	got.Keywords[0] = "MUTATED"
	got.Signals[0] = "MUTATED"
	got.Sources[0].URL = "MUTATED"

	again, ok := c.Get("https://acme.com")
	require.True(t, ok)
	assert.Equal(t, []string{"acme.com", "cloud"}, again.Keywords)
	assert.Equal(t, []string{"Expanding team"}, again.Signals)
	assert.Equal(t, "https://acme.com", again.Sources[0].URL)
}
