// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All operations MUST return these sentinels and tests MUST check them
// via errors.Is. No operation should panic on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. DO NOT %w wrap these sentinels when returning
// directly; if context is essential, wrap with matrixErrorf at the outer
// boundary; callers will still use errors.Is to match.

var (
	// ErrBadShape is returned when a requested shape is invalid (e.g. an empty
	// label axis on construction).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid
	// bounds. Public indexers (At/Set/Row) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. RowBind blocks whose sample axes disagree.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrDuplicateLabel signals a repeated row or column label on an axis that
	// requires global uniqueness.
	ErrDuplicateLabel = errors.New("matrix: duplicate label")

	// ErrUnknownLabel indicates that a referenced row/column label is not
	// present in the current label index.
	ErrUnknownLabel = errors.New("matrix: unknown label")

	// ErrNonSquare signals that a square matrix was required but the input
	// wasn't (feature-by-feature score matrices must be square).
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNilMatrix indicates that a nil *Dense (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrBadQuantiles signals a winsorization quantile pair outside
	// 0 <= lo < hi <= 1.
	ErrBadQuantiles = errors.New("matrix: invalid quantile pair")
)

// matrixErrorf wraps an underlying error with operation context.
func matrixErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
