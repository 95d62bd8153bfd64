package api

import "fmt"

// Error is the envelope every non-2xx response carries.
type Error struct {
	Message    string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error: status=%d, message=%s", e.StatusCode, e.Message)
}
