package sequence

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIteratorChains(t *testing.T) {
	it := From([]int{1, 2, 3, 4, 5})
	even := it.Filter(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even.Collect())
	assert.Equal(t, []int{20, 40}, Map(even, func(v int) int { return v * 10 }).Collect())
	assert.Equal(t, 5, it.Count())
}

func TestIteratorLookups(t *testing.T) {
	it := From([]string{"a", "bb", "ccc"})

	v, ok := it.Find(func(s string) bool { return len(s) == 2 })
	assert.True(t, ok)
	assert.Equal(t, "bb", v)

	_, ok = it.Find(func(s string) bool { return s == "z" })
	assert.False(t, ok)
	assert.True(t, it.Any(func(s string) bool { return s == "ccc" }))

	first, ok := it.First()
	assert.True(t, ok)
	assert.Equal(t, "a", first)

	_, ok = From[string](nil).First()
	assert.False(t, ok)
}

func TestIteratorFromSeqs(t *testing.T) {
	assert.Equal(t, []int{1, 2}, FromSeq(slices.Values([]int{1, 2})).Collect())

	m := map[string]int{"x": 1, "y": 2}
	assert.ElementsMatch(t, []int{1, 2}, FromSeq2Values(maps.All(m)).Collect())

	var seen []int
	From([]int{3, 4}).Each(func(v int) { seen = append(seen, v) })
	assert.Equal(t, []int{3, 4}, seen)
}

func TestIteratorStopsEarly(t *testing.T) {
	calls := 0
	it := Map(From([]int{1, 2, 3}), func(v int) int {
		calls++
		return v
	})
	_, _ = it.First()
	assert.Equal(t, 1, calls)
}
