package wave

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/common"
	"github.com/AlexZinkM/wave-portal/internal/logging"
	"github.com/AlexZinkM/wave-portal/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// Startup task names used in StartReport.Errors
const (
	TaskSubscribe = "subscribe"
	TaskSession   = "session"
	TaskHistory   = "history"
	TaskCountries = "countries"
	TaskMedia     = "media"
)

// BalanceReader reads account balances. *ethclient.Client implements it.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) (*big.Int, error)
}

// Options wires the collaborators of a Portal. Every field is optional.
type Options struct {
	Provider  Provider
	Ledger    Ledger
	Chain     Chain
	Balances  BalanceReader
	Countries CountrySource
	Media     MediaSource
	GifID     string
	Gateway   GatewayConfig
	Language  language.Tag
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// StartReport summarizes the startup tasks. Failed tasks are listed in Errors
// and leave the corresponding state empty.
type StartReport struct {
	Session    Outcome
	Records    int
	Countries  int
	Subscribed bool
	Errors     map[string]error
}

// Portal composes the session, gateway, directory and feed.
type Portal struct {
	session   *Session
	gateway   *Gateway
	directory *Directory
	feed      *Feed
	balances  BalanceReader
	media     MediaSource
	gifID     string
	now       func() time.Time
	log       logrus.FieldLogger

	mu  sync.Mutex
	sub event.Subscription
	gif *model.Media
}

// NewPortal creates a portal from opts
func NewPortal(opts Options) *Portal {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lang := opts.Language
	if lang == language.Und {
		lang = language.English
	}
	return &Portal{
		session:   NewSession(opts.Provider, logger),
		gateway:   NewGateway(opts.Ledger, opts.Chain, opts.Provider, opts.Gateway, logger),
		directory: NewDirectory(opts.Countries, lang, logger),
		feed:      NewFeed(),
		balances:  opts.Balances,
		media:     opts.Media,
		gifID:     opts.GifID,
		now:       now,
		log:       logging.Component(logger, "portal"),
	}
}

// Start opens the wave subscription, then checks the session, reads the
// history, loads the countries and fetches the media concurrently. Failures
// are logged and reported, none of them stops the others. ctx bounds the
// lifetime of the subscription, Close releases it earlier.
func (p *Portal) Start(ctx context.Context) StartReport {
	report := StartReport{Errors: map[string]error{}}
	var mu sync.Mutex
	fail := func(task string, err error) {
		mu.Lock()
		report.Errors[task] = err
		mu.Unlock()

		entry := p.log.WithError(err).WithField("task", task)
		if IsKind(err, KindNoProvider) {
			entry.Info("skipped, no wallet provider")
			return
		}
		entry.Warn("startup task failed")
	}

	sub, err := p.gateway.Subscribe(ctx, p.onEvent)
	if err != nil {
		fail(TaskSubscribe, err)
	} else {
		p.mu.Lock()
		if p.sub != nil {
			p.sub.Unsubscribe()
		}
		p.sub = sub
		p.mu.Unlock()
		report.Subscribed = true
	}

	var g errgroup.Group
	g.Go(func() error {
		outcome, err := p.session.Check(ctx)
		if err != nil {
			fail(TaskSession, err)
		}
		mu.Lock()
		report.Session = outcome
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		records, err := p.gateway.ReadAll(ctx)
		if err != nil {
			fail(TaskHistory, err)
			return nil
		}
		p.feed.MergeHistory(records)
		mu.Lock()
		report.Records = len(records)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		if err := p.directory.Load(ctx); err != nil {
			fail(TaskCountries, err)
			return nil
		}
		mu.Lock()
		report.Countries = len(p.directory.Countries())
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		if err := p.loadMedia(ctx); err != nil {
			fail(TaskMedia, err)
		}
		return nil
	})
	_ = g.Wait()

	p.log.WithFields(logging.Fields{
		"connected":  report.Session.Connected,
		"records":    report.Records,
		"countries":  report.Countries,
		"subscribed": report.Subscribed,
		"failed":     len(report.Errors),
	}).Info("portal started")
	return report
}

func (p *Portal) loadMedia(ctx context.Context) error {
	const op = "portal.media"
	if p.media == nil || p.gifID == "" {
		return NewError(KindNetwork, op, errors.New("no media source"))
	}
	gif, err := p.media.FetchGIF(ctx, p.gifID)
	if err != nil {
		return NewError(KindNetwork, op, err)
	}
	p.mu.Lock()
	p.gif = gif
	p.mu.Unlock()
	return nil
}

func (p *Portal) onEvent(record model.WaveRecord) {
	if p.feed.Append(record) {
		p.log.WithFields(logging.Fields{"sender": record.Sender, "tx": record.TxHash}).Info("new wave")
	}
}

// Close releases the wave subscription
func (p *Portal) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sub != nil {
		p.sub.Unsubscribe()
		p.sub = nil
	}
}

// Connect prompts the wallet for an account
func (p *Portal) Connect(ctx context.Context) (Outcome, error) {
	return p.session.Connect(ctx)
}

// Session returns the current session outcome
func (p *Portal) Session() Outcome {
	return p.session.Outcome()
}

// State returns the session state, reporting "submitting" while a wave is in flight
func (p *Portal) State() string {
	if p.gateway.Submitting() {
		return "submitting"
	}
	return string(p.session.State())
}

// Balance returns the ETH balance of the active account
func (p *Portal) Balance(ctx context.Context) (string, error) {
	const op = "portal.balance"
	account, ok := p.session.Account()
	if !ok {
		return "", NewError(KindNotConnected, op, nil)
	}
	if p.balances == nil {
		return "", NewError(KindNetwork, op, errors.New("no balance reader"))
	}
	wei, err := p.balances.BalanceAt(ctx, account, nil)
	if err != nil {
		return "", classify(op, err)
	}
	return common.WeiToEther(wei), nil
}

// Submit sends a wave from the active account. The feed picks the wave up
// from the subscription once it is mined.
func (p *Portal) Submit(ctx context.Context, message, countryCode string) (*Receipt, error) {
	account, ok := p.session.Account()
	if !ok {
		return nil, NewError(KindNotConnected, "portal.submit", nil)
	}
	return p.gateway.Submit(ctx, account, message, common.NormalizeCountryCode(countryCode))
}

// Feed returns the display feed, newest first
func (p *Portal) Feed() []model.DisplayWave {
	return Reconcile(p.feed.Records(), p.directory, p.now())
}

// Countries returns the sorted country table
func (p *Portal) Countries() []model.Country {
	return p.directory.Countries()
}

// Media returns the decorative GIF, if it was fetched
func (p *Portal) Media() (*model.Media, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gif, p.gif != nil
}

// Watch streams display records for new waves until cancel is called
func (p *Portal) Watch(buffer int) (<-chan model.DisplayWave, func()) {
	records, stop := p.feed.Watch(buffer)
	out := make(chan model.DisplayWave, buffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for r := range records {
			select {
			case out <- Display(r, p.directory, p.now()):
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			stop()
		})
	}
}
