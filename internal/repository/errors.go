// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// workflow engine and handlers to distinguish between different failure
// scenarios. For example, ErrUsernameExists signals a registration
// conflict that should re-render the form, while ErrAlreadyResolved
// signals that an explanation reached a terminal state before the
// caller's update committed.
package repository

import "errors"

// ErrUsernameExists is returned when an insert collides with the unique
// index on user.username. Handlers should translate this into a
// re-rendered registration form.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when an insert collides with the unique
// index on user.email.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyResolved is returned when a state transition is attempted
// on an explanation that is no longer pending. The row is left
// untouched; the first reviewer to commit wins.
var ErrAlreadyResolved = errors.New("explanation already resolved")
