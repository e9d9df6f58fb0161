package link

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/leg100/rawlink/internal"
)

// Verification errors. Each is distinct so that misuse, expiry and tampering
// can be told apart.
var (
	ErrNotFound          = internal.ErrResourceNotFound
	ErrMissingParameters = errors.New("missing parameters")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpired           = errors.New("expired link")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrForbiddenOrigin   = errors.New("forbidden origin")
)

// VerificationError is returned when a presented link fails verification.
type VerificationError struct {
	ID     string
	Reason error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verifying link for %s: %s", e.ID, e.Reason)
}

func (e *VerificationError) Unwrap() error {
	return e.Reason
}

// rejection describes how a verification failure is presented to the fetcher.
type rejection struct {
	reason string
	status int
	body   string
}

var rejections = []struct {
	err error
	rejection
}{
	{ErrNotFound, rejection{"not_found", http.StatusNotFound, "Not Found"}},
	{ErrMissingParameters, rejection{"missing_parameters", http.StatusBadRequest, "Missing parameters."}},
	{ErrInvalidToken, rejection{"invalid_token", http.StatusForbidden, "Invalid token."}},
	{ErrExpired, rejection{"expired", http.StatusGone, "Expired link."}},
	{ErrInvalidSignature, rejection{"invalid_signature", http.StatusForbidden, "Invalid signature."}},
	{ErrForbiddenOrigin, rejection{"forbidden_origin", http.StatusForbidden, "Forbidden origin."}},
}

// Reason returns a short machine-readable code for a verification error, or
// an empty string if err is not one.
func Reason(err error) string {
	rej, ok := lookupRejection(err)
	if !ok {
		return ""
	}
	return rej.reason
}

func lookupRejection(err error) (rejection, bool) {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.rejection, true
		}
	}
	return rejection{}, false
}
