package service

import "errors"

// ErrForbidden means the caller is authenticated but lacks the role
// the operation requires.
var ErrForbidden = errors.New("insufficient role")
