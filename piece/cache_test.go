package piece

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func TestCacheWaitsForOneComputation(t *testing.T) {
	c := newCache()
	k := internalKey("events")
	release := make(chan struct{})
	var calls int32
	compute := func() (model.Data, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return model.NewTable([]model.Offset{0}, []string{"0"}), nil
	}

	const callers = 8
	results := make([]model.Data, callers)
	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			started.Done()
			d, err := c.get(k, compute)
			assert.NoError(t, err)
			results[i] = d
		}(i)
	}
	started.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, d := range results {
		assert.Same(t, results[0], d)
	}
}

func TestCacheForgetsFailures(t *testing.T) {
	c := newCache()
	k := internalKey("events")
	failed := errors.New("unreadable score")
	table := model.NewTable(nil, nil)
	calls := 0
	compute := func() (model.Data, error) {
		calls++
		if calls == 1 {
			return nil, failed
		}
		return table, nil
	}

	assert := assert.New(t)
	_, err := c.get(k, compute)
	assert.ErrorIs(err, failed)
	assert.False(c.has(k))

	d, err := c.get(k, compute)
	assert.NoError(err)
	assert.Same(table, d)
	assert.Equal(2, calls)
	assert.Equal([]DerivationKey{k}, c.keys())
}

func TestCacheRecoversPanics(t *testing.T) {
	c := newCache()
	k := internalKey("events")

	d, err := c.get(k, func() (model.Data, error) {
		panic("index out of range")
	})

	assert := assert.New(t)
	assert.Nil(d)
	assert.ErrorContains(err, "index out of range")
	assert.Empty(c.keys())
}
