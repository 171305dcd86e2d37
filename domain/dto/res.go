package dto

// Res is the envelope of every response.
type Res struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrRes is the envelope of every error response.
type ErrRes struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func NewRes(statusCode int, data interface{}, message string) Res {
	return Res{StatusCode: statusCode, Data: data, Message: message, Success: statusCode < 400}
}
