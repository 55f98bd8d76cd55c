package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileRead         = errors.New("failed to read fixture definition")
	ErrEmptyConnectionString = errors.New("empty connection string")
	ErrOutputFileCreation    = errors.New("failed to write output file")
)
