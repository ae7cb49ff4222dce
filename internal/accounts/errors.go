package accounts

import "errors"

// ErrNotFound indicates the account does not exist or belongs to another user.
var ErrNotFound = errors.New("account not found")
