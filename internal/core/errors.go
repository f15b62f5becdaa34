package core

import "errors"

// ErrWrongChannel means a channel-restricted command was invoked
// somewhere else. Nothing is recorded.
var ErrWrongChannel = errors.New("command must be used in the attendance channel")

// ErrPermissionDenied means a non-admin invoked an admin-only command.
var ErrPermissionDenied = errors.New("only admins can run this command")

// ErrNoLateRecords means a late-fine query returned zero rows. It is an
// informational outcome, not a failure: the caller sends a notice instead
// of a table.
var ErrNoLateRecords = errors.New("no late records in the requested month")
