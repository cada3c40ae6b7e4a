//go:build windows

package main

import "os"

// shutdownSignals cancel a running conversion. Only Ctrl+C is delivered.
var shutdownSignals = []os.Signal{os.Interrupt}
