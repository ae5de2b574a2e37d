package model

// SessionResponse represents response for GET /session and POST /session/connect
type SessionResponse struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Account   string `json:"account,omitempty"`
	QR        string `json:"qr,omitempty"`      // base64 PNG of the account address
	Balance   string `json:"balance,omitempty"` // ETH
}

// ConnectRequest represents the optional body of POST /session/connect
type ConnectRequest struct {
	Password string `json:"password"`
}
