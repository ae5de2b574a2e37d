package wave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Kind classifies failures surfaced by the portal
type Kind string

const (
	KindNoProvider     Kind = "no_provider"
	KindUserRejected   Kind = "user_rejected"
	KindNetwork        Kind = "network_error"
	KindChainReverted  Kind = "chain_reverted"
	KindNotConnected   Kind = "not_connected"
	KindSubmitInFlight Kind = "submit_in_flight"
)

// JSON-RPC error codes used by wallets and nodes
const (
	codeExecutionReverted = 3
	codeUserRejected      = 4001
)

var (
	// ErrNoProvider is returned when no wallet provider is configured
	ErrNoProvider = errors.New("no wallet provider")
	// ErrUserRejected is returned by providers when the user declines an authorization request
	ErrUserRejected = errors.New("user rejected the request")
)

// Error is a classified portal error
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error for operation op
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or "" if err is not a classified error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// classify wraps err into an *Error, keeping an existing classification
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return NewError(kindFor(err), op, err)
}

func kindFor(err error) Kind {
	switch {
	case errors.Is(err, ErrNoProvider):
		return KindNoProvider
	case errors.Is(err, ErrUserRejected):
		return KindUserRejected
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected:
			return KindUserRejected
		case codeExecutionReverted:
			return KindChainReverted
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "execution reverted") {
		return KindChainReverted
	}
	return KindNetwork
}
