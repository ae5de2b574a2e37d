package model

// Country is one entry of the country reference table
type Country struct {
	Code      string `json:"code"`    // ISO 3166-1 alpha-2
	Name      string `json:"name"`    // common name
	Demonym   string `json:"demonym"` // english, masculine
	FlagURL   string `json:"flagUrl"` // svg
	FlagEmoji string `json:"flagEmoji"`
}
