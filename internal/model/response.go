package model

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
// Code is the HTTP status, repeated in the body so clients can check it
// without reaching for transport metadata.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MessageResponse is the envelope for mutations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}
