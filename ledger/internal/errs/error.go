package errs

import (
	"errors"
)

// Failure taxonomy of the lending ledger. Repositories surface these,
// handlers translate them into the Outcome contract.
var (
	ErrBookNotFound = errors.New("book not found")
	ErrUserNotFound = errors.New("user not found")
	ErrLoanNotFound = errors.New("loan not found")

	ErrOutOfStock      = errors.New("no copies available")
	ErrLimitExceeded   = errors.New("active loan limit reached")
	ErrAlreadyBorrowed = errors.New("book already borrowed by this user")
	ErrAlreadyReturned = errors.New("loan already returned")
)
