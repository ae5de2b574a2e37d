package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/client"
	"github.com/AlexZinkM/wave-portal/internal/crypto"
	"github.com/AlexZinkM/wave-portal/internal/logging"
	"github.com/AlexZinkM/wave-portal/internal/model"
	"github.com/AlexZinkM/wave-portal/wave"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	streamBuffer = 16
	writeWait    = 10 * time.Second
)

// Portal is the wave portal as seen by the HTTP layer. *wave.Portal implements it.
type Portal interface {
	Session() wave.Outcome
	State() string
	Balance(ctx context.Context) (string, error)
	Connect(ctx context.Context) (wave.Outcome, error)
	Submit(ctx context.Context, message, countryCode string) (*wave.Receipt, error)
	Feed() []model.DisplayWave
	Countries() []model.Country
	Media() (*model.Media, bool)
	Watch(buffer int) (<-chan model.DisplayWave, func())
}

// WaveHandler serves the wave portal API
type WaveHandler struct {
	portal   Portal
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// NewWaveHandler creates a new WaveHandler
func NewWaveHandler(portal Portal, logger logrus.FieldLogger) (*WaveHandler, error) {
	if portal == nil {
		return nil, errors.New("portal not set")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &WaveHandler{
		portal: portal,
		log:    logging.Component(logger, "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Session handles GET /session
// @Summary      Get wallet session
// @Description  Returns the connection state, the active account with its QR code and ETH balance
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /session [get]
func (h *WaveHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(r.Context(), h.portal.Session()))
}

// Connect handles POST /session/connect
// @Summary      Connect wallet
// @Description  Asks the wallet provider to authorize an account. Keystore wallets take the password in the body
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      model.ConnectRequest  false  "Key file password"
// @Success      200      {object}  model.SessionResponse
// @Failure      403      {object}  model.ErrorResponse
// @Failure      503      {object}  model.ErrorResponse
// @Router       /session/connect [post]
func (h *WaveHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	var req model.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if req.Password != "" {
		password := []byte(req.Password)
		defer clear(password) // Always clear password from memory
		ctx = client.WithPassword(ctx, password)
	}

	outcome, err := h.portal.Connect(ctx)
	if err != nil {
		h.writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionResponse(r.Context(), outcome))
}

// Waves handles GET and POST /waves
func (h *WaveHandler) Waves(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListWaves(w, r)
	case http.MethodPost:
		h.SubmitWave(w, r)
	default:
		http.Error(w, "Method not allowed. Should be GET or POST", http.StatusMethodNotAllowed)
	}
}

// ListWaves handles GET /waves
// @Summary      List waves
// @Description  Returns all waves newest first, decorated with nationality and flag
// @Tags         waves
// @Produce      json
// @Success      200  {object}  model.FeedResponse
// @Router       /waves [get]
func (h *WaveHandler) ListWaves(w http.ResponseWriter, r *http.Request) {
	waves := h.portal.Feed()
	writeJSON(w, http.StatusOK, model.FeedResponse{Count: len(waves), Waves: waves})
}

// SubmitWave handles POST /waves
// @Summary      Wave
// @Description  Sends a wave from the connected account and waits until it is mined
// @Tags         waves
// @Accept       json
// @Produce      json
// @Param        request  body      model.SubmitRequest  true  "Wave data"
// @Success      200      {object}  model.SubmitResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /waves [post]
func (h *WaveHandler) SubmitWave(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	receipt, err := h.portal.Submit(r.Context(), req.Message, req.CountryCode)
	if err != nil {
		h.writeKindError(w, err)
		return
	}

	resp := model.SubmitResponse{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber,
	}
	if receipt.TotalAfter != nil {
		resp.TotalWaves = receipt.TotalAfter.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stream handles GET /waves/stream
// @Summary      Stream new waves
// @Description  WebSocket pushing every new wave as a JSON message
// @Tags         waves
// @Success      101
// @Router       /waves/stream [get]
func (h *WaveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.portal.Watch(streamBuffer)
	defer cancel()

	// The client never sends, reading only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case d, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(d); err != nil {
				h.log.WithError(err).Debug("stream client gone")
				return
			}
		}
	}
}

// Countries handles GET /countries
// @Summary      List countries
// @Description  Returns the country table sorted by name, empty when it could not be loaded
// @Tags         countries
// @Produce      json
// @Success      200  {array}  model.Country
// @Router       /countries [get]
func (h *WaveHandler) Countries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	countries := h.portal.Countries()
	if countries == nil {
		countries = []model.Country{}
	}
	writeJSON(w, http.StatusOK, countries)
}

// Media handles GET /media
// @Summary      Get decorative GIF
// @Tags         media
// @Produce      json
// @Success      200  {object}  model.Media
// @Failure      404  {object}  model.ErrorResponse
// @Router       /media [get]
func (h *WaveHandler) Media(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	media, ok := h.portal.Media()
	if !ok {
		writeError(w, http.StatusNotFound, "media not loaded", "")
		return
	}
	writeJSON(w, http.StatusOK, media)
}

func (h *WaveHandler) sessionResponse(ctx context.Context, outcome wave.Outcome) model.SessionResponse {
	resp := model.SessionResponse{
		Connected: outcome.Connected,
		State:     h.portal.State(),
		Account:   outcome.Account,
	}
	if !outcome.Connected {
		return resp
	}

	if qr, err := crypto.GenerateQRCode(outcome.Account); err == nil {
		resp.QR = qr
	} else {
		h.log.WithError(err).Warn("failed to generate account QR code")
	}
	if balance, err := h.portal.Balance(ctx); err == nil {
		resp.Balance = balance
	} else {
		h.log.WithError(err).Debug("balance unavailable")
	}
	return resp
}

func (h *WaveHandler) writeKindError(w http.ResponseWriter, err error) {
	kind := wave.KindOf(err)
	status := statusFor(kind)
	entry := h.log.WithError(err).WithField("kind", kind)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request refused")
	}
	writeError(w, status, err.Error(), string(kind))
}

func statusFor(kind wave.Kind) int {
	switch kind {
	case wave.KindNoProvider:
		return http.StatusServiceUnavailable
	case wave.KindUserRejected:
		return http.StatusForbidden
	case wave.KindNotConnected:
		return http.StatusConflict
	case wave.KindSubmitInFlight:
		return http.StatusTooManyRequests
	case wave.KindChainReverted:
		return http.StatusUnprocessableEntity
	case wave.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

var _ Portal = (*wave.Portal)(nil)
