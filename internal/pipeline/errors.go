package pipeline

import "errors"

// Sentinel errors for pipeline construction and input decoding.
var (
	ErrEmptyInput      = errors.New("input text cannot be empty")
	ErrEncoding        = errors.New("input is not valid UTF-8 text")
	ErrUnknownProfile  = errors.New("unknown symbol profile")
	ErrEmptySymbol     = errors.New("symbol mapping has empty symbol")
	ErrASCIISymbol     = errors.New("symbol mapping overrides plain ASCII")
	ErrDuplicateSymbol = errors.New("symbol mapped more than once")
	ErrUnsafeMapping   = errors.New("replacement contains characters outside the safe set")
	ErrHTMLConversion  = errors.New("HTML conversion failed")
)
