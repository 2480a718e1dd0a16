package bitvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGetRoundTrip(t *testing.T) {
	v := Zeros(8, 4)
	for i := 0; i < v.Len(); i++ {
		v.Set(i, uint64(i*10))
	}
	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, uint64(i*10), v.Get(i))
	}
}

func TestPushIterRoundTrip(t *testing.T) {
	v := New(10)
	for i := 0; i < 100; i++ {
		v.Push(uint64(i * 10))
	}
	assert.Equal(t, 100, v.Len())

	it := v.Iter()
	for i := 0; i < 100; i++ {
		got, ok := it.Next()
		assert.True(t, ok)
		assert.Equal(t, uint64(i*10), got)
	}
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestCompareLexicographic(t *testing.T) {
	a := New(4)
	a.Push(1)
	a.Push(2)

	b := New(4)
	b.Push(1)
	b.Push(3)

	assert.Equal(t, -1, Compare(&a, &b))
	assert.Equal(t, 1, Compare(&b, &a))
	assert.Equal(t, 0, Compare(&a, &a))
}

func TestCompareShorterIsLess(t *testing.T) {
	prefix := New(4)
	prefix.Push(1)

	full := New(4)
	full.Push(1)
	full.Push(0)

	assert.Equal(t, -1, Compare(&prefix, &full))
}

func TestToInteger(t *testing.T) {
	v := New(2)
	v.Push(1) // 01
	v.Push(2) // 10
	v.Push(3) // 11
	// base-4 digits 1,2,3 most significant first => 1*16 + 2*4 + 3 = 27
	assert.Equal(t, uint64(27), v.ToInteger())
}

func TestBitsOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(129) })
}

func TestSetValueTooLargePanics(t *testing.T) {
	v := Zeros(3, 1)
	assert.Panics(t, func() { v.Set(0, 8) })
}

func TestFromBytesRoundTrip(t *testing.T) {
	v := Zeros(5, 6)
	for i := 0; i < v.Len(); i++ {
		v.Set(i, uint64(i))
	}
	restored := FromBytes(5, 6, v.Bytes())
	for i := 0; i < restored.Len(); i++ {
		assert.Equal(t, uint64(i), restored.Get(i))
	}
}
