// Package pool provides unified object pooling for Prism. It offers
// type-safe pooling built on sync.Pool plus global pools for the scratch
// buffers the numeric pipeline reuses heavily: float64 column buffers
// during standardization and string row buffers during artifact export.
//
// Example usage:
//
//	buf := pool.GetFloat64Slice(rows)
//	defer pool.PutFloat64Slice(buf)
//
//	// Using custom pools
//	myPool := pool.New(
//	    func() *MyType { return &MyType{} },
//	    func(obj *MyType) { obj.Reset() },
//	)
//	obj := myPool.Get()
//	defer myPool.Put(obj)
package pool

import (
	"sync"
)

// Pool represents a generic object pool with type safety. It wraps
// sync.Pool with an optional reset function applied before an object is
// returned for reuse. The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

// New creates a new typed pool with custom allocation and reset
// functions. The new function is called when the pool is empty; the
// reset function, if non-nil, is called by Put before the object is
// stored for reuse.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, allocating a fresh one if the
// pool is empty.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse, applying the reset
// function first when one was configured.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Global pools for the pipeline's scratch buffers.

var float64SlicePool = New(
	func() []float64 { return make([]float64, 0, 1024) },
	nil,
)

var stringSlicePool = New(
	func() []string { return make([]string, 0, 64) },
	nil,
)

// GetFloat64Slice returns a float64 slice of length n from the global
// pool. The contents are not zeroed; callers must overwrite every
// element before reading.
func GetFloat64Slice(n int) []float64 {
	buf := float64SlicePool.Get()
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

// PutFloat64Slice returns a slice obtained from GetFloat64Slice to the
// pool. The caller must not use the slice afterwards.
func PutFloat64Slice(buf []float64) {
	float64SlicePool.Put(buf[:0])
}

// GetStringSlice returns a string slice of length n from the global pool.
// The contents are not zeroed; callers must overwrite every element
// before reading.
func GetStringSlice(n int) []string {
	buf := stringSlicePool.Get()
	if cap(buf) < n {
		return make([]string, n)
	}
	return buf[:n]
}

// PutStringSlice returns a slice obtained from GetStringSlice to the pool.
func PutStringSlice(buf []string) {
	stringSlicePool.Put(buf[:0])
}
