package dto

// SessionsResponse lists the sessions a query can target
type SessionsResponse struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}
