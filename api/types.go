package api

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// KindsResponse lists the query kinds the server answers.
type KindsResponse struct {
	Kinds []string `json:"kinds"`
}

// StatusResponse is returned by the status endpoint
type StatusResponse struct {
	Snapshot  string            `json:"snapshot"`
	LoadedAt  time.Time         `json:"loaded_at"`
	Counters  map[string]uint64 `json:"counters"`
	QueryKind int               `json:"query_kinds"`
}

// Error codes returned in ErrorResponse.Code
const (
	CodeInvalidBody  = "INVALID_BODY"
	CodeInvalidQuery = "INVALID_QUERY"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL"
	CodeRateLimit    = "RATE_LIMIT"
)
