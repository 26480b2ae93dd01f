package helper

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheHelper(t *testing.T) {
	cache := NewCacheHelper(NewLoggerHelper())

	assert.Nil(t, cache.Get("rainfall@2000"))

	cache.Set("rainfall@2000", []float64{1, 2, 3})
	assert.Equal(t, []float64{1, 2, 3}, cache.Get("rainfall@2000"))

	cache.Set("rainfall@2000", []float64{4})
	assert.Equal(t, []float64{4}, cache.Get("rainfall@2000"))

	cache.Clear()
	assert.Nil(t, cache.Get("rainfall@2000"))
}

func TestCacheHelperConcurrentAccess(t *testing.T) {
	cache := NewCacheHelper(NewLoggerHelper())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cache.Set("shared", n)
			cache.Get("shared")
		}(i)
	}
	wg.Wait()

	assert.NotNil(t, cache.Get("shared"))
}
