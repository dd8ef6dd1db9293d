package pyast

import "errors"

// ErrSourceUnavailable is returned when a module's source could not be read
// or parsed. Callers must treat it as a best-effort skip, never as a
// reason to fail the whole compilation pass.
var ErrSourceUnavailable = errors.New("pyast: source unavailable")

// ErrModuleNotFound is returned when a dotted module name has no matching
// file under the project root.
var ErrModuleNotFound = errors.New("pyast: module not found")
