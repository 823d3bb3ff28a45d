package report

import "errors"

// ErrInvalidArgument marks requests that can never succeed, such as an
// unknown seller. Jobs discard instead of retrying on it.
var ErrInvalidArgument = errors.New("invalid argument")
