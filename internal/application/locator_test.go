package application

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocator(t *testing.T) {
	l, err := NewLocator("/data/a.sqlite")
	require.NoError(t, err)
	assert.Equal(t, "/data/a.sqlite", l.Location())

	_, err = NewLocator("  ")
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestLocator_RejectsBlankAndKeepsPrevious(t *testing.T) {
	l, err := NewLocator("/data/a.sqlite")
	require.NoError(t, err)

	for _, blank := range []string{"", " ", "\n\t"} {
		err := l.SetLocation(blank)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "location", valErr.Field)
		assert.Equal(t, "/data/a.sqlite", l.Location())
	}
}

func TestLocator_ReadsLatestWrite(t *testing.T) {
	l, err := NewLocator("/data/a.sqlite")
	require.NoError(t, err)

	require.NoError(t, l.SetLocation("/data/b.sqlite"))
	assert.Equal(t, "/data/b.sqlite", l.Location())
}

func TestLocator_ZeroValue(t *testing.T) {
	var l Locator
	assert.Equal(t, "", l.Location())
}

func TestLocator_ConcurrentSwapSeesWholeValues(t *testing.T) {
	const before, after = "/data/before.sqlite", "/data/after-with-a-longer-name.sqlite"
	l, err := NewLocator(before)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got := l.Location()
				if got != before && got != after {
					t.Errorf("observed intermediate location %q", got)
					return
				}
			}
		}()
	}

	for i := range 1000 {
		next := before
		if i%2 == 0 {
			next = after
		}
		require.NoError(t, l.SetLocation(next))
	}
	close(stop)
	wg.Wait()
}

func TestLocator_Swap(t *testing.T) {
	l, err := NewLocator("/data/a.sqlite")
	require.NoError(t, err)

	previous, err := l.Swap("/data/b.sqlite")
	require.NoError(t, err)
	assert.Equal(t, "/data/a.sqlite", previous)
	assert.Equal(t, "/data/b.sqlite", l.Location())

	current, err := l.Swap(" ")
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "/data/b.sqlite", current)
	assert.Equal(t, "/data/b.sqlite", l.Location())
}
