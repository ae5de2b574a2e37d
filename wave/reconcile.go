package wave

import (
	"time"

	"github.com/AlexZinkM/wave-portal/internal/common"
	"github.com/AlexZinkM/wave-portal/internal/model"

	"github.com/dustin/go-humanize"
)

// Lookup resolves the country decorations of a wave
type Lookup interface {
	Nationality(code string) string
	Flag(code string) string
	Emoji(code string) string
}

// Reconcile maps records in ledger order to display records, newest first.
func Reconcile(records []model.WaveRecord, lookup Lookup, now time.Time) []model.DisplayWave {
	out := make([]model.DisplayWave, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, Display(records[i], lookup, now))
	}
	return out
}

// Display decorates a single record
func Display(r model.WaveRecord, lookup Lookup, now time.Time) model.DisplayWave {
	d := model.DisplayWave{
		Address:      r.Sender,
		ShortAddress: common.ShortAddress(r.Sender),
		CountryCode:  r.CountryCode,
		Timestamp:    r.Timestamp,
		Message:      r.Message,
	}
	if !r.Timestamp.IsZero() {
		d.Ago = humanize.RelTime(r.Timestamp, now, "ago", "from now")
	}
	if r.CountryCode != "" && lookup != nil {
		d.Nationality = lookup.Nationality(r.CountryCode)
		d.FlagURL = lookup.Flag(r.CountryCode)
		d.FlagEmoji = lookup.Emoji(r.CountryCode)
	}
	return d
}
