package handler

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/model"
	"github.com/AlexZinkM/wave-portal/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePortal struct {
	mu         sync.Mutex
	outcome    wave.Outcome
	connectErr error
	submitErr  error
	submitted  []model.SubmitRequest
	feed       []model.DisplayWave
	countries  []model.Country
	media      *model.Media
	updates    chan model.DisplayWave
	cancelled  chan struct{}
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		updates:   make(chan model.DisplayWave, 1),
		cancelled: make(chan struct{}),
	}
}

func (p *fakePortal) Session() wave.Outcome { return p.outcome }
func (p *fakePortal) State() string {
	if p.outcome.Connected {
		return "connected"
	}
	return "disconnected"
}
func (p *fakePortal) Balance(ctx context.Context) (string, error) { return "1.5", nil }
func (p *fakePortal) Connect(ctx context.Context) (wave.Outcome, error) {
	if p.connectErr != nil {
		return wave.Outcome{}, p.connectErr
	}
	p.outcome = wave.Outcome{Connected: true, Account: "0x00000000000000000000000000000000000a11ce"}
	return p.outcome, nil
}
func (p *fakePortal) Submit(ctx context.Context, message, countryCode string) (*wave.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.submitErr != nil {
		return nil, p.submitErr
	}
	p.submitted = append(p.submitted, model.SubmitRequest{Message: message, CountryCode: countryCode})
	return &wave.Receipt{TxHash: common.HexToHash("0xbeef"), BlockNumber: 12, TotalAfter: big.NewInt(4)}, nil
}
func (p *fakePortal) Feed() []model.DisplayWave { return p.feed }
func (p *fakePortal) Countries() []model.Country { return p.countries }
func (p *fakePortal) Media() (*model.Media, bool) { return p.media, p.media != nil }
func (p *fakePortal) Watch(buffer int) (<-chan model.DisplayWave, func()) {
	var once sync.Once
	return p.updates, func() { once.Do(func() { close(p.cancelled) }) }
}

func newTestHandler(t *testing.T, p *fakePortal) *WaveHandler {
	t.Helper()
	h, err := NewWaveHandler(p, nil)
	require.NoError(t, err)
	return h
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestSessionDisconnected(t *testing.T) {
	h := newTestHandler(t, newFakePortal())
	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.SessionResponse](t, rec)
	assert.False(t, resp.Connected)
	assert.Equal(t, "disconnected", resp.State)
	assert.Empty(t, resp.QR)
}

func TestConnect(t *testing.T) {
	p := newFakePortal()
	h := newTestHandler(t, p)

	rec := httptest.NewRecorder()
	h.Connect(rec, httptest.NewRequest(http.MethodPost, "/session/connect", strings.NewReader(`{"password":"dev"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.SessionResponse](t, rec)
	assert.True(t, resp.Connected)
	assert.Equal(t, "0x00000000000000000000000000000000000a11ce", resp.Account)
	assert.NotEmpty(t, resp.QR)
	assert.Equal(t, "1.5", resp.Balance)
}

func TestConnectBody(t *testing.T) {
	t.Run("chunked empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/session/connect", strings.NewReader(""))
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		newTestHandler(t, newFakePortal()).Connect(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestHandler(t, newFakePortal()).Connect(rec, httptest.NewRequest(http.MethodPost, "/session/connect", strings.NewReader(`{"password":`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConnectErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "no provider", err: wave.NewError(wave.KindNoProvider, "connect", wave.ErrNoProvider), status: http.StatusServiceUnavailable, code: "no_provider"},
		{name: "rejected", err: wave.NewError(wave.KindUserRejected, "connect", wave.ErrUserRejected), status: http.StatusForbidden, code: "user_rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newFakePortal()
			p.connectErr = tc.err
			rec := httptest.NewRecorder()
			newTestHandler(t, p).Connect(rec, httptest.NewRequest(http.MethodPost, "/session/connect", nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decode[model.ErrorResponse](t, rec).Code)
		})
	}
}

func TestListWaves(t *testing.T) {
	p := newFakePortal()
	p.feed = []model.DisplayWave{{Message: "newest"}, {Message: "oldest"}}

	rec := httptest.NewRecorder()
	newTestHandler(t, p).Waves(rec, httptest.NewRequest(http.MethodGet, "/waves", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.FeedResponse](t, rec)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "newest", resp.Waves[0].Message)
}

func TestSubmitWave(t *testing.T) {
	p := newFakePortal()
	rec := httptest.NewRecorder()
	newTestHandler(t, p).Waves(rec, httptest.NewRequest(http.MethodPost, "/waves", strings.NewReader(`{"message":"hello","countryCode":"US"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.SubmitResponse](t, rec)
	assert.Equal(t, common.HexToHash("0xbeef").Hex(), resp.TxHash)
	assert.Equal(t, uint64(12), resp.BlockNumber)
	assert.Equal(t, "4", resp.TotalWaves)
	assert.Equal(t, []model.SubmitRequest{{Message: "hello", CountryCode: "US"}}, p.submitted)
}

func TestSubmitWaveErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "empty message", body: `{"message":"  "}`, status: http.StatusBadRequest},
		{name: "not connected", body: `{"message":"hi"}`, err: wave.NewError(wave.KindNotConnected, "submit", nil), status: http.StatusConflict},
		{name: "in flight", body: `{"message":"hi"}`, err: wave.NewError(wave.KindSubmitInFlight, "submit", nil), status: http.StatusTooManyRequests},
		{name: "reverted", body: `{"message":"hi"}`, err: wave.NewError(wave.KindChainReverted, "submit", nil), status: http.StatusUnprocessableEntity},
		{name: "network", body: `{"message":"hi"}`, err: wave.NewError(wave.KindNetwork, "submit", nil), status: http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newFakePortal()
			p.submitErr = tc.err
			rec := httptest.NewRecorder()
			newTestHandler(t, p).Waves(rec, httptest.NewRequest(http.MethodPost, "/waves", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, newFakePortal())

	rec := httptest.NewRecorder()
	h.Waves(rec, httptest.NewRequest(http.MethodDelete, "/waves", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.Connect(rec, httptest.NewRequest(http.MethodGet, "/session/connect", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCountriesAndMedia(t *testing.T) {
	p := newFakePortal()
	h := newTestHandler(t, p)

	rec := httptest.NewRecorder()
	h.Countries(rec, httptest.NewRequest(http.MethodGet, "/countries", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Media(rec, httptest.NewRequest(http.MethodGet, "/media", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p.media = &model.Media{ID: "fpXxIjftmkk9y"}
	rec = httptest.NewRecorder()
	h.Media(rec, httptest.NewRequest(http.MethodGet, "/media", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fpXxIjftmkk9y", decode[model.Media](t, rec).ID)
}

func TestStream(t *testing.T) {
	p := newFakePortal()
	srv := httptest.NewServer(http.HandlerFunc(newTestHandler(t, p).Stream))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	p.updates <- model.DisplayWave{Message: "live", ShortAddress: "000a11ce"}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got model.DisplayWave
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "live", got.Message)

	conn.Close()
	select {
	case <-p.cancelled:
	case <-time.After(time.Second):
		t.Fatal("watch was not cancelled after the client left")
	}
}
