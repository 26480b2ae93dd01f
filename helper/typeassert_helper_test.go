package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeAssertHelper(t *testing.T) {
	ta := NewTypeAssertHelper(NewLoggerHelper())

	assert.Equal(t, "hello", ta.String("hello"))
	assert.Equal(t, "", ta.String(42))

	assert.Equal(t, []string{"a", "b"}, ta.StringSlice([]string{"a", "b"}))
	assert.Nil(t, ta.StringSlice("a"))

	assert.Equal(t, []float64{1.5}, ta.Float64Slice([]float64{1.5}))
	assert.Nil(t, ta.Float64Slice([]int{1}))

	assert.Equal(t, [][]float64{{1}, {2}}, ta.Float64Slice2D([][]float64{{1}, {2}}))
	assert.Nil(t, ta.Float64Slice2D([]float64{1}))
}
