package wave

import (
	"context"
	"sync"

	"github.com/AlexZinkM/wave-portal/internal/logging"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// State is the wallet connection state
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Outcome is the result of a session check or connect
type Outcome struct {
	Connected bool   `json:"connected"`
	Account   string `json:"account,omitempty"`
}

// Session tracks which wallet account, if any, is active.
type Session struct {
	provider Provider
	log      logrus.FieldLogger

	mu      sync.Mutex
	state   State
	account common.Address
}

// NewSession creates a session over provider. A nil provider is allowed and
// makes every operation fail with KindNoProvider.
func NewSession(provider Provider, logger logrus.FieldLogger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		provider: provider,
		log:      logging.Component(logger, "session"),
		state:    StateDisconnected,
	}
}

// Check looks for an already authorized account without prompting the user.
func (s *Session) Check(ctx context.Context) (Outcome, error) {
	const op = "session.check"
	if s.provider == nil {
		return s.Outcome(), NewError(KindNoProvider, op, ErrNoProvider)
	}

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		return s.Outcome(), classify(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(accounts) == 0 {
		s.log.Debug("no authorized account found")
		return s.outcomeLocked(), nil
	}
	s.account = accounts[0]
	s.state = StateConnected
	s.log.WithField("account", s.account.Hex()).Info("found an authorized account")
	return s.outcomeLocked(), nil
}

// Connect asks the provider to authorize an account, prompting the user.
func (s *Session) Connect(ctx context.Context) (Outcome, error) {
	const op = "session.connect"
	if s.provider == nil {
		return s.Outcome(), NewError(KindNoProvider, op, ErrNoProvider)
	}

	s.mu.Lock()
	previous := s.state
	s.state = StateConnecting
	s.mu.Unlock()

	accounts, err := s.provider.RequestAccounts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && len(accounts) == 0 {
		err = ErrUserRejected
	}
	if err != nil {
		s.state = previous
		return s.outcomeLocked(), classify(op, err)
	}

	s.account = accounts[0]
	s.state = StateConnected
	s.log.WithField("account", s.account.Hex()).Info("connected")
	return s.outcomeLocked(), nil
}

// Account returns the active account and whether there is one
func (s *Session) Account() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account, s.state == StateConnected
}

// State returns the current connection state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns the current session outcome
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcomeLocked()
}

func (s *Session) outcomeLocked() Outcome {
	if s.state != StateConnected {
		return Outcome{}
	}
	return Outcome{Connected: true, Account: s.account.Hex()}
}
