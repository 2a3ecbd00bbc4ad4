package auth

import "fmt"

// AccountLockedError rejects an attempt against a currently locked
// account. RetryAfterSeconds counts down to lock expiry, rounded up.
type AccountLockedError struct {
	RetryAfterSeconds int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d seconds", e.RetryAfterSeconds)
}

// InvalidCredentialsError rejects a failed password comparison.
// LockImposed is set on the attempt that crossed the failure
// threshold and locked the account.
type InvalidCredentialsError struct {
	RemainingAttempts int
	LockImposed       bool
}

func (e *InvalidCredentialsError) Error() string {
	if e.LockImposed {
		return "incorrect password, account locked"
	}
	return fmt.Sprintf("incorrect password, %d attempts remaining", e.RemainingAttempts)
}
