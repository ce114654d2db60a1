package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the error returned by api.Client methods when the authority responds
// with a non-2xx status. Every failed call is normalized into an Error, no
// matter what the response body looked like.
type Error struct {
	// Method is the HTTP request method.
	Method string `json:"method,omitempty"`
	// Path is the HTTP request path.
	Path string `json:"path,omitempty"`
	// Code is the HTTP status of the response.
	Code int32 `json:"code"`
	// Message contains the full text of the failure as a single string.
	Message string `json:"message"`
	// FieldErrors contains a structured representation of any validation errors
	// reported by the authority.
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

func (e Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %v", e.Code, strings.ToLower(http.StatusText(int(e.Code))))
	}
	return e.Message
}

type FieldError struct {
	FieldName string   `json:"fieldName"`
	Errors    []string `json:"errors"`
}

// ErrorStatusCode returns the http status code from the error.
// Returns 0 if the error is nil, or if the error is not an api.Error.
func ErrorStatusCode(err error) int32 {
	var apiError Error
	if errors.As(err, &apiError) {
		return apiError.Code
	}
	return 0
}

// errorBody is the shape of failed responses from the authority. Detail is
// either a message, or a list of field problems for rejected request bodies.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type detailItem struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

func newError(req *http.Request, status int, body []byte) Error {
	apiError := Error{
		Method: req.Method,
		Path:   req.URL.Path,
		Code:   int32(status),
	}

	var raw errorBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiError
	}
	apiError.Message = raw.Message

	var detail string
	if err := json.Unmarshal(raw.Detail, &detail); err == nil {
		apiError.Message = detail
		return apiError
	}

	var items []detailItem
	if err := json.Unmarshal(raw.Detail, &items); err != nil {
		return apiError
	}

	index := map[string]int{}
	var messages []string
	for _, item := range items {
		name := ""
		if len(item.Loc) > 0 {
			name = fmt.Sprint(item.Loc[len(item.Loc)-1])
		}
		i, ok := index[name]
		if !ok {
			i = len(apiError.FieldErrors)
			index[name] = i
			apiError.FieldErrors = append(apiError.FieldErrors, FieldError{FieldName: name})
		}
		apiError.FieldErrors[i].Errors = append(apiError.FieldErrors[i].Errors, item.Msg)
		messages = append(messages, strings.TrimPrefix(name+": "+item.Msg, ": "))
	}
	if apiError.Message == "" && len(messages) > 0 {
		apiError.Message = "validation failed: " + strings.Join(messages, ", ")
	}
	return apiError
}
