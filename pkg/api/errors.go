package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-2xx backend response. Detail carries the human-readable
// message from the response body when one was present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

// decodeError reads a failed response body, expecting the backend's
// {"detail": "..."} shape. Undecodable bodies leave Detail empty so
// callers fall back to their generic message.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
