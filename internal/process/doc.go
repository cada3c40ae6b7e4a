// Package process manages the process groups of external typesetting
// commands, so a timed-out command is killed together with its children.
package process
