package model

// Media is the decorative GIF shown next to the feed
type Media struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
	Width    string `json:"width"`
	Height   string `json:"height"`
}
