package model

import (
	"strconv"
	"strings"
	"time"
)

// WaveRecord is one wave as stored on the ledger
type WaveRecord struct {
	Sender      string    `json:"sender"`
	CountryCode string    `json:"countryCode,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Message     string    `json:"message"`
	TxHash      string    `json:"txHash,omitempty"`      // set for event-sourced records only
	BlockNumber uint64    `json:"blockNumber,omitempty"` // set for event-sourced records only
	LogIndex    uint      `json:"logIndex,omitempty"`
}

// Key identifies a wave independently of how it was obtained (historical read or event).
func (w WaveRecord) Key() string {
	return strings.ToLower(w.Sender) + "|" + strconv.FormatInt(w.Timestamp.Unix(), 10) + "|" + w.Message
}

// LogID identifies the event log a record came from, empty for historical records
func (w WaveRecord) LogID() string {
	if w.TxHash == "" {
		return ""
	}
	return w.TxHash + ":" + strconv.FormatUint(uint64(w.LogIndex), 10)
}

// DisplayWave is a wave decorated with country data, ready for display
type DisplayWave struct {
	Address      string    `json:"address"`
	ShortAddress string    `json:"shortAddress"`
	CountryCode  string    `json:"countryCode,omitempty"`
	Nationality  string    `json:"nationality"`
	FlagURL      string    `json:"flagUrl"`
	FlagEmoji    string    `json:"flagEmoji,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Ago          string    `json:"ago"`
	Message      string    `json:"message"`
}

// FeedResponse represents response for GET /waves
type FeedResponse struct {
	Count int           `json:"count"`
	Waves []DisplayWave `json:"waves"`
}

// SubmitRequest represents request for POST /waves
type SubmitRequest struct {
	Message     string `json:"message" binding:"required"`
	CountryCode string `json:"countryCode"`
}

// SubmitResponse represents response for POST /waves
type SubmitResponse struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	TotalWaves  string `json:"totalWaves,omitempty"`
}
