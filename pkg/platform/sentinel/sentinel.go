package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped) and
// services translate them into domain errors:
//   - ErrNotFound: row does not exist
//   - ErrAlreadyUsed: a write-once slot (e.g. a clock direction) is already filled
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrUnavailable: the backing store is temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
