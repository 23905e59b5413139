package vtr

import "errors"

// Refinement errors.
var (
	ErrNilLevel            = errors.New("nil level")
	ErrInvalidTopology     = errors.New("invalid topology")
	ErrNonTriangularFace   = errors.New("tri split requires triangular faces")
	ErrEmptySelection      = errors.New("sparse refinement without a selection")
	ErrChildNotEmpty       = errors.New("child level already populated")
	ErrAlreadyRefined      = errors.New("refinement already performed")
	ErrInconsistentMapping = errors.New("inconsistent refinement mapping")
	ErrInvalidFVarChannel  = errors.New("invalid face-varying channel")
)
