package employee

import "errors"

var ErrNotAuthorized = errors.New("You are not allowed to view this profile")
