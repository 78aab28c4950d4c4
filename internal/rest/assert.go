package rest

import (
	"encoding/json"
	"fmt"
)

// ResponseError reports an API call that did not succeed.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// AssertResponse fails when resp is missing, has a non-2xx status, or any of
// its action results reports success false.
func AssertResponse(resp *Response) error {
	if resp == nil {
		return &ResponseError{Message: "no response"}
	}
	if !resp.IsSuccess() {
		return &ResponseError{
			Method:     resp.Method,
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}
	for i, r := range resp.Results {
		if r.Success != nil && !*r.Success {
			return &ResponseError{
				Method:     resp.Method,
				URL:        resp.URL,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("result %d failed: %s", i, r.Message),
			}
		}
	}
	return nil
}

// AssertLast asserts the client's most recent response.
func (c *Client) AssertLast() error {
	return AssertResponse(c.LastResponse())
}

func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	if e.Error.Kind != "" {
		return e.Error.Kind + ": " + e.Error.Message
	}
	return e.Error.Message
}
