package main

import (
	"context"
	"fmt"

	mdsafe "github.com/alnah/go-mdsafe"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mdsafe.Input) (*mdsafe.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdsafe.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolAdapter exposes *mdsafe.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *mdsafe.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newConverterPool is the production Environment.NewPool.
func newConverterPool(size int, opts ...mdsafe.Option) Pool {
	return &poolAdapter{pool: mdsafe.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	c, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics when given a converter this pool did not hand out.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*mdsafe.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
