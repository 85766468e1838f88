package slony

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies why a fetch failed
type Kind int

const (
	// KindConfiguration means a required setting is missing; nothing was dialed
	KindConfiguration Kind = iota + 1
	// KindConnection covers TLS setup, the handshake and connecting to the database
	KindConnection
	// KindQuery means one of the status queries failed
	KindQuery
	// KindNotFound means the node has no events of its own
	KindNotFound
)

// String returns the label used for the kind in logs and metrics
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the only error type Fetch returns
type Error struct {
	Kind    Kind
	Op      string // step that failed, e.g. "identity" or "connect"
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindQuery}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of a fetch error, or 0 if err is not one
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err means the node has no events
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func configurationError(err error) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Op:      "config",
		Message: err.Error(),
		Err:     err,
	}
}

func notFoundError(msg string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      opIdentity,
		Message: msg,
	}
}

// connectionError converts a dial or TLS failure
func connectionError(err error) *Error {
	msg := err.Error()
	if isTLSError(err) {
		msg = fmt.Sprintf("SSL error: %s", err)
	}
	return &Error{
		Kind:    KindConnection,
		Op:      "connect",
		Message: msg,
		Err:     err,
	}
}

// queryError converts a driver error raised while running step op. Server
// side errors keep their SQLSTATE so operators can tell a missing schema
// (42P01, 3F000) from a permission problem (42501).
func queryError(op string, err error) *Error {
	msg := fmt.Sprintf("%s query failed: %s", op, err)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg = fmt.Sprintf("%s query failed: %s (SQLSTATE %s)", op, pgErr.Message, pgErr.Code)
	}
	return &Error{
		Kind:    KindQuery,
		Op:      op,
		Message: msg,
		Err:     err,
	}
}

// tlsSetupError converts a failure building the client TLS configuration
func tlsSetupError(err error) *Error {
	return &Error{
		Kind:    KindConnection,
		Op:      "tls",
		Message: fmt.Sprintf("SSL error: %s", err),
		Err:     err,
	}
}

func isTLSError(err error) bool {
	var (
		recordErr  tls.RecordHeaderError
		certErr    *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		alertErr   tls.AlertError
	)
	switch {
	case errors.As(err, &recordErr),
		errors.As(err, &certErr),
		errors.As(err, &unknownCA),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr),
		errors.As(err, &alertErr):
		return true
	}
	return false
}
