package wave

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/contract"
	"github.com/AlexZinkM/wave-portal/internal/model"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type fakeProvider struct {
	accounts    []common.Address
	accountsErr error
	requested   []common.Address
	requestErr  error
}

func (p *fakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return p.accounts, p.accountsErr
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return p.requested, p.requestErr
}

func (p *fakeProvider) Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: account}, nil
}

type sentWave struct {
	from        common.Address
	gasLimit    uint64
	message     string
	countryCode string
}

type fakeLedger struct {
	mu       sync.Mutex
	waves    []contract.WavePortalWave
	readErr  error
	total    int64
	totalErr error // returned by every counter read after the first
	reads    int
	sent     []sentWave
	waveErr  error
	release  chan struct{} // when set, Wave blocks until it is closed

	watchErr error
	sink     chan<- *contract.WavePortalNewWave
	watching chan struct{}
	stopped  atomic.Bool

	filtered []*contract.WavePortalNewWave
}

func newFakeLedger(waves ...contract.WavePortalWave) *fakeLedger {
	return &fakeLedger{waves: waves, total: int64(len(waves)), watching: make(chan struct{})}
}

func (l *fakeLedger) GetAllWaves(opts *bind.CallOpts) ([]contract.WavePortalWave, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waves, l.readErr
}

func (l *fakeLedger) GetTotalWaves(opts *bind.CallOpts) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	if l.reads > 1 && l.totalErr != nil {
		return nil, l.totalErr
	}
	return big.NewInt(l.total), nil
}

func (l *fakeLedger) Wave(opts *bind.TransactOpts, message string, countryCode string) (*types.Transaction, error) {
	if l.release != nil {
		<-l.release
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.waveErr != nil {
		return nil, l.waveErr
	}
	l.sent = append(l.sent, sentWave{from: opts.From, gasLimit: opts.GasLimit, message: message, countryCode: countryCode})
	l.total++
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(l.sent)), Gas: opts.GasLimit, Data: []byte(message)}), nil
}

func (l *fakeLedger) WatchNewWave(opts *bind.WatchOpts, sink chan<- *contract.WavePortalNewWave) (event.Subscription, error) {
	if l.watchErr != nil {
		return nil, l.watchErr
	}
	l.mu.Lock()
	l.sink = sink
	l.mu.Unlock()
	close(l.watching)
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		l.stopped.Store(true)
		return nil
	}), nil
}

func (l *fakeLedger) FilterNewWave(opts *bind.FilterOpts) ([]*contract.WavePortalNewWave, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.filtered
	l.filtered = nil
	return events, nil
}

func (l *fakeLedger) emit(ev *contract.WavePortalNewWave) {
	<-l.watching
	l.mu.Lock()
	sink := l.sink
	l.mu.Unlock()
	sink <- ev
}

func (l *fakeLedger) sentWaves() []sentWave {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]sentWave(nil), l.sent...)
}

type fakeChain struct {
	status uint64
	head   atomic.Uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{status: types.ReceiptStatusSuccessful}
}

func (c *fakeChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: c.status, TxHash: txHash, BlockNumber: big.NewInt(int64(c.head.Load()))}, nil
}

func (c *fakeChain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (c *fakeChain) BlockNumber(ctx context.Context) (uint64, error) {
	return c.head.Add(1), nil
}

type fakeCountries struct {
	countries []model.Country
	err       error
}

func (s fakeCountries) FetchCountries(ctx context.Context) ([]model.Country, error) {
	return s.countries, s.err
}

type fakeMedia struct{}

func (fakeMedia) FetchGIF(ctx context.Context, id string) (*model.Media, error) {
	return &model.Media{ID: id, ImageURL: "https://media.giphy.com/" + id + ".gif"}, nil
}

type fakeBalances struct{}

func (fakeBalances) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), nil
}

var errOffline = errors.New("dial tcp: connection refused")

func onChain(sender common.Address, country string, ts int64, message string) contract.WavePortalWave {
	return contract.WavePortalWave{Waver: sender, CountryCode: country, Timestamp: big.NewInt(ts), Message: message}
}

func newWaveEvent(sender common.Address, ts int64, message string, tx common.Hash, index uint) *contract.WavePortalNewWave {
	return &contract.WavePortalNewWave{
		From:      sender,
		Timestamp: big.NewInt(ts),
		Message:   message,
		Raw:       types.Log{TxHash: tx, Index: index, BlockNumber: 7},
	}
}

func directoryCountries() []model.Country {
	return []model.Country{
		{Code: "US", Name: "United States", Demonym: "American", FlagURL: "https://flagcdn.com/us.svg", FlagEmoji: "🇺🇸"},
		{Code: "FR", Name: "France", Demonym: "French", FlagURL: "https://flagcdn.com/fr.svg", FlagEmoji: "🇫🇷"},
		{Code: "AX", Name: "Åland Islands", Demonym: "Ålandish", FlagURL: "https://flagcdn.com/ax.svg", FlagEmoji: "🇦🇽"},
		{Code: "AL", Name: "Albania", Demonym: "Albanian", FlagURL: "https://flagcdn.com/al.svg", FlagEmoji: "🇦🇱"},
	}
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
