package mlpq

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput reports a key, ciphertext or signature buffer
	// whose length or range does not match the active parameter set. It
	// is detected at the decode boundary, before any secret-dependent
	// computation begins, and is recoverable by the caller.
	ErrMalformedInput = errors.New("mlpq: malformed input")

	// ErrEntropyUnavailable reports a failure of the host's secure
	// random source. The call cannot proceed without entropy.
	ErrEntropyUnavailable = errors.New("mlpq: entropy source unavailable")
)

// RetryExhaustedError is raised as a panic when signing fails to find a
// valid response within the parameter set's retry bound. For correctly
// chosen bounds this cannot occur under any message, so it signals a
// parameter-set bug rather than a per-call recoverable condition.
type RetryExhaustedError struct {
	Level    SecurityLevel
	Attempts int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("mlpq: signing retry bound exhausted after %d attempts (level %s)", e.Attempts, e.Level)
}
