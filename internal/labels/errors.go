package labels

import "errors"

// Error classes shared across the tool. Concrete errors wrap one of these,
// so callers test with errors.Is.
var (
	ErrConfig = errors.New("config error")
	ErrParse  = errors.New("parse error")
	ErrSchema = errors.New("schema error")
	ErrIO     = errors.New("io error")
)
