package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testObj struct {
	values []int
}

func TestTypedPool(t *testing.T) {
	p := New(
		func() *testObj { return &testObj{values: make([]int, 0, 8)} },
		func(o *testObj) { o.values = o.values[:0] },
	)

	obj := p.Get()
	obj.values = append(obj.values, 1, 2, 3)
	p.Put(obj)

	// Reset must have cleared the object before reuse.
	again := p.Get()
	assert.Empty(t, again.values)
}

func TestGetFloat64Slice(t *testing.T) {
	buf := GetFloat64Slice(100)
	assert.Len(t, buf, 100)
	PutFloat64Slice(buf)

	// Requests beyond pooled capacity still succeed.
	big := GetFloat64Slice(1 << 16)
	assert.Len(t, big, 1<<16)
	PutFloat64Slice(big)
}

func TestGetStringSlice(t *testing.T) {
	buf := GetStringSlice(10)
	assert.Len(t, buf, 10)
	for i := range buf {
		buf[i] = "x"
	}
	PutStringSlice(buf)
}
