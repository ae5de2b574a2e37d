package wave

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/AlexZinkM/wave-portal/internal/common"
	"github.com/AlexZinkM/wave-portal/internal/logging"
	"github.com/AlexZinkM/wave-portal/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Directory is the country reference table, loaded once per process.
// Lookups before or after a failed load fall back to the raw code.
type Directory struct {
	source CountrySource
	lang   language.Tag
	log    logrus.FieldLogger

	mu        sync.RWMutex
	countries []model.Country
	byCode    map[string]model.Country
}

// NewDirectory creates an empty directory backed by source
func NewDirectory(source CountrySource, lang language.Tag, logger logrus.FieldLogger) *Directory {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Directory{
		source: source,
		lang:   lang,
		log:    logging.Component(logger, "directory"),
		byCode: map[string]model.Country{},
	}
}

// Load fetches the table and stores it sorted by common name. On failure the
// directory keeps its previous contents. There is no retry.
func (d *Directory) Load(ctx context.Context) error {
	const op = "directory.load"
	if d.source == nil {
		return NewError(KindNetwork, op, errors.New("no country source"))
	}

	countries, err := d.source.FetchCountries(ctx)
	if err != nil {
		return NewError(KindNetwork, op, err)
	}

	sorted := slices.Clone(countries)
	col := collate.New(d.lang)
	slices.SortStableFunc(sorted, func(a, b model.Country) int {
		return col.CompareString(a.Name, b.Name)
	})

	byCode := make(map[string]model.Country, len(sorted))
	for _, c := range sorted {
		code := common.NormalizeCountryCode(c.Code)
		if code == "" {
			continue
		}
		byCode[code] = c
	}

	d.mu.Lock()
	d.countries = sorted
	d.byCode = byCode
	d.mu.Unlock()

	d.log.WithField("count", len(sorted)).Info("loaded countries")
	return nil
}

// Loaded reports whether a load has succeeded
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.countries) > 0
}

// Countries returns the sorted table
func (d *Directory) Countries() []model.Country {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.countries)
}

// Lookup finds a country by 2-letter code, case-insensitively
func (d *Directory) Lookup(code string) (model.Country, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.byCode[common.NormalizeCountryCode(code)]
	return c, ok
}

// Nationality returns the demonym for code, or code itself when unknown
func (d *Directory) Nationality(code string) string {
	if c, ok := d.Lookup(code); ok && c.Demonym != "" {
		return c.Demonym
	}
	return code
}

// Flag returns the flag image URL for code, or code itself when unknown
func (d *Directory) Flag(code string) string {
	if c, ok := d.Lookup(code); ok && c.FlagURL != "" {
		return c.FlagURL
	}
	return code
}

// Emoji returns the flag emoji for code, or "" when unknown
func (d *Directory) Emoji(code string) string {
	if c, ok := d.Lookup(code); ok {
		return c.FlagEmoji
	}
	return ""
}
