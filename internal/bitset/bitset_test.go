package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddHasCount(t *testing.T) {
	s := New(100)
	assert.Equal(t, 0, s.Count())

	s.Add(5)
	s.Add(63)
	s.Add(64)
	s.Add(5) // duplicate add is a no-op

	assert.Equal(t, 3, s.Count())
	assert.True(t, s.Has(5))
	assert.True(t, s.Has(63))
	assert.True(t, s.Has(64))
	assert.False(t, s.Has(6))
}

func TestOutOfRangeIsNoop(t *testing.T) {
	s := New(10)
	s.Add(-1)
	s.Add(10)
	s.Add(1000)
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Has(-1))
	assert.False(t, s.Has(10))
}

func TestDelete(t *testing.T) {
	s := New(10)
	s.Add(3)
	s.Delete(3)
	assert.False(t, s.Has(3))
	assert.Equal(t, 0, s.Count())

	s.Delete(7) // absent: no-op, must not go negative
	assert.Equal(t, 0, s.Count())
}

func TestClear(t *testing.T) {
	s := New(10)
	s.Add(1)
	s.Add(2)
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Has(1))
}

func TestForEachAscendingOrder(t *testing.T) {
	s := New(200)
	for _, i := range []int{150, 1, 99, 0, 63, 64} {
		s.Add(i)
	}
	var seen []int
	s.ForEach(func(i int) bool {
		seen = append(seen, i)
		return true
	})
	assert.Equal(t, []int{0, 1, 63, 64, 99, 150}, seen)
}

func TestForEachEarlyStop(t *testing.T) {
	s := New(10)
	s.Add(1)
	s.Add(2)
	s.Add(3)
	var seen []int
	s.ForEach(func(i int) bool {
		seen = append(seen, i)
		return i != 2
	})
	assert.Equal(t, []int{1, 2}, seen)
}

func TestToSlice(t *testing.T) {
	s := New(10)
	s.Add(4)
	s.Add(1)
	s.Add(8)
	assert.Equal(t, []int{1, 4, 8}, s.ToSlice())
}

func TestFromSlice(t *testing.T) {
	s := FromSlice(20, []int{5, 10, 15, 5})
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []int{5, 10, 15}, s.ToSlice())
	assert.Equal(t, 20, s.Len())
}
