package dto

// ErrorResponse is the failure form of the API envelope.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// OKResponse is the success envelope for writes that return no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

func Fail(message string) ErrorResponse {
	return ErrorResponse{OK: false, Error: message}
}

func Success() OKResponse {
	return OKResponse{OK: true}
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	DB         string `json:"db"`
	Moderators int    `json:"moderators"`
}
