/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrNilStore       = errors.New("analysis store is nil")
	ErrNilBloodTestID = errors.New("blood test id is nil")
)

// PersistenceError reports the entry whose result could not be stored.
type PersistenceError struct {
	Index int
	Name  string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist result %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
