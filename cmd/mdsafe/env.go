package main

import (
	"io"
	"os"
	"time"

	mdsafe "github.com/alnah/go-mdsafe"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and converter pool construction.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	NewPool func(size int, opts ...mdsafe.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newConverterPool,
	}
}
