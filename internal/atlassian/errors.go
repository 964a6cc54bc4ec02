package atlassian

import "fmt"

// AuthError means the service rejected our credentials. It is fatal for the
// whole run: no further call can succeed once credentials are invalid.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected by service (status %d)", e.Status)
}

// FetchError is a per-page or per-item retrieval failure that survived the
// retry policy. It degrades the run to partial results instead of aborting.
type FetchError struct {
	Path     string
	Status   int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.Path, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts (status %d)", e.Path, e.Attempts, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// statusError marks a retryable HTTP status inside the retry loop.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("transient status %d", e.status)
}
