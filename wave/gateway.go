package wave

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/contract"
	"github.com/AlexZinkM/wave-portal/internal/logging"
	"github.com/AlexZinkM/wave-portal/internal/model"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultGasLimit     = 300000
	DefaultPollInterval = 15 * time.Second

	eventBuffer = 16
)

// GatewayConfig holds the tunables of a Gateway
type GatewayConfig struct {
	GasLimit     uint64        // gas ceiling for wave transactions
	PollInterval time.Duration // log polling interval when the node cannot push events
}

// Receipt describes a mined wave transaction
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	TotalBefore *big.Int
	TotalAfter  *big.Int // nil when the counter could not be re-read
}

// Gateway reads and writes the wave contract on behalf of the session's account.
type Gateway struct {
	ledger       Ledger
	chain        Chain
	provider     Provider
	gasLimit     uint64
	pollInterval time.Duration
	log          logrus.FieldLogger

	inFlight   *semaphore.Weighted
	submitting atomic.Bool
}

// NewGateway creates a gateway. A nil provider makes reads and writes fail with KindNoProvider.
func NewGateway(ledger Ledger, chain Chain, provider Provider, cfg GatewayConfig, logger logrus.FieldLogger) *Gateway {
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Gateway{
		ledger:       ledger,
		chain:        chain,
		provider:     provider,
		gasLimit:     cfg.GasLimit,
		pollInterval: cfg.PollInterval,
		log:          logging.Component(logger, "gateway"),
		inFlight:     semaphore.NewWeighted(1),
	}
}

// Submitting reports whether a wave transaction is being broadcast or mined
func (g *Gateway) Submitting() bool {
	return g.submitting.Load()
}

// ReadAll returns every wave stored by the contract, in ledger order.
func (g *Gateway) ReadAll(ctx context.Context) ([]model.WaveRecord, error) {
	const op = "gateway.read_all"
	if g.provider == nil || g.ledger == nil {
		return nil, NewError(KindNoProvider, op, ErrNoProvider)
	}

	waves, err := g.ledger.GetAllWaves(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, classify(op, err)
	}

	records := make([]model.WaveRecord, 0, len(waves))
	for _, w := range waves {
		records = append(records, model.WaveRecord{
			Sender:      w.Waver.Hex(),
			CountryCode: w.CountryCode,
			Timestamp:   unixTime(w.Timestamp),
			Message:     w.Message,
		})
	}
	g.log.WithField("count", len(records)).Debug("read waves")
	return records, nil
}

// Submit broadcasts a wave from account and blocks until it is mined.
// Only one submission may be in flight; a concurrent call fails with KindSubmitInFlight.
// The feed is not touched, the new record arrives through the subscription.
func (g *Gateway) Submit(ctx context.Context, account common.Address, message, countryCode string) (*Receipt, error) {
	const op = "gateway.submit"
	if g.provider == nil || g.ledger == nil {
		return nil, NewError(KindNoProvider, op, ErrNoProvider)
	}
	if g.chain == nil {
		return nil, NewError(KindNetwork, op, errors.New("no chain backend to wait for receipts"))
	}
	if !g.inFlight.TryAcquire(1) {
		return nil, NewError(KindSubmitInFlight, op, nil)
	}
	defer g.inFlight.Release(1)
	g.submitting.Store(true)
	defer g.submitting.Store(false)

	log := g.log.WithField("account", account.Hex())

	before, err := g.ledger.GetTotalWaves(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, classify(op, err)
	}
	log.WithField("total", before.String()).Debug("retrieved total wave count")

	opts, err := g.provider.Transactor(ctx, account)
	if err != nil {
		return nil, classify(op, err)
	}
	opts.Context = ctx
	opts.GasLimit = g.gasLimit

	tx, err := g.ledger.Wave(opts, message, countryCode)
	if err != nil {
		return nil, classify(op, err)
	}
	log = log.WithField("tx", tx.Hash().Hex())
	log.Info("mining wave transaction")

	mined, err := bind.WaitMined(ctx, g.chain, tx)
	if err != nil {
		return nil, classify(op, err)
	}
	if mined.Status == types.ReceiptStatusFailed {
		return nil, NewError(KindChainReverted, op, errors.New("transaction reverted"))
	}

	receipt := &Receipt{
		TxHash:      tx.Hash(),
		TotalBefore: before,
	}
	if mined.BlockNumber != nil {
		receipt.BlockNumber = mined.BlockNumber.Uint64()
	}
	after, err := g.ledger.GetTotalWaves(&bind.CallOpts{Context: ctx})
	if err != nil {
		log.WithError(err).Warn("wave mined but total wave count could not be re-read")
		return receipt, nil
	}
	receipt.TotalAfter = after
	log.WithFields(logging.Fields{"block": receipt.BlockNumber, "total": after.String()}).Info("wave mined")
	return receipt, nil
}

// Subscribe delivers a record for every NewWave event until the subscription is
// unsubscribed or ctx ends. Nodes without push support are polled instead.
func (g *Gateway) Subscribe(ctx context.Context, onRecord func(model.WaveRecord)) (event.Subscription, error) {
	const op = "gateway.subscribe"
	if g.provider == nil || g.ledger == nil {
		return nil, NewError(KindNoProvider, op, ErrNoProvider)
	}

	sink := make(chan *contract.WavePortalNewWave, eventBuffer)
	sub, err := g.ledger.WatchNewWave(&bind.WatchOpts{Context: ctx}, sink)
	if errors.Is(err, rpc.ErrNotificationsUnsupported) {
		g.log.WithField("interval", g.pollInterval).Info("node cannot push logs, polling instead")
		return g.poll(ctx, onRecord)
	}
	if err != nil {
		return nil, classify(op, err)
	}

	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case ev := <-sink:
				onRecord(recordFromEvent(ev))
			case err := <-sub.Err():
				if err != nil {
					g.log.WithError(err).Warn("wave subscription ended")
				}
				return err
			case <-ctx.Done():
				return ctx.Err()
			case <-quit:
				return nil
			}
		}
	}), nil
}

func (g *Gateway) poll(ctx context.Context, onRecord func(model.WaveRecord)) (event.Subscription, error) {
	const op = "gateway.poll"
	if g.chain == nil {
		return nil, NewError(KindNetwork, op, errors.New("no chain backend to poll"))
	}
	head, err := g.chain.BlockNumber(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	from := head + 1

	return event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(g.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				next, err := g.pollOnce(ctx, from, onRecord)
				if err != nil {
					g.log.WithError(err).WithField("from", from).Warn("failed to poll wave logs")
					continue
				}
				from = next
			}
		}
	}), nil
}

// pollOnce delivers the events in [from, head] and returns the next start block
func (g *Gateway) pollOnce(ctx context.Context, from uint64, onRecord func(model.WaveRecord)) (uint64, error) {
	head, err := g.chain.BlockNumber(ctx)
	if err != nil {
		return from, err
	}
	if head < from {
		return from, nil
	}
	events, err := g.ledger.FilterNewWave(&bind.FilterOpts{Start: from, End: &head, Context: ctx})
	if err != nil {
		return from, err
	}
	for _, ev := range events {
		onRecord(recordFromEvent(ev))
	}
	return head + 1, nil
}

func recordFromEvent(ev *contract.WavePortalNewWave) model.WaveRecord {
	return model.WaveRecord{
		Sender:      ev.From.Hex(),
		Timestamp:   unixTime(ev.Timestamp),
		Message:     ev.Message,
		TxHash:      ev.Raw.TxHash.Hex(),
		BlockNumber: ev.Raw.BlockNumber,
		LogIndex:    ev.Raw.Index,
	}
}

func unixTime(seconds *big.Int) time.Time {
	if seconds == nil || !seconds.IsInt64() {
		return time.Time{}
	}
	return time.Unix(seconds.Int64(), 0).UTC()
}
