package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AddRequest is the body of POST /add.
//
// Item stays nil when the client omits it; the store decides whether that is acceptable.
type AddRequest struct {
	Item *Text `json:"item"`
}

// UpdateRequest is the body of POST /update. Item and Done are replaced together.
type UpdateRequest struct {
	ID   ID    `json:"id"`
	Item *Text `json:"item"`
	Done Flag  `json:"done"`
}

// RemoveRequest is the body of POST /remove.
type RemoveRequest struct {
	ID ID `json:"id"`
}

// Text is item text that decodes from any JSON scalar. Numbers and booleans
// keep their literal spelling, so {"item":5} stores "5".
type Text string

// NewText returns a pointer to t, ready for a request body.
func NewText(s string) *Text {
	t := Text(s)
	return &t
}

// UnmarshalJSON implements [json.Unmarshaler].
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("invalid item")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		return fmt.Errorf("invalid item %s", data)
	default:
		*t = Text(data)
	}
	return nil
}

// Ptr returns the text as a *string, nil when t is nil.
func (t *Text) Ptr() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// ID is a todo identifier that decodes from a JSON number or a numeric string.
type ID int64

// UnmarshalJSON implements [json.Unmarshaler].
func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = 0
		return nil
	}

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}

	*i = ID(n)
	return nil
}

// Flag is a completion flag that decodes from booleans, 0/1, and their string forms.
type Flag bool

// UnmarshalJSON implements [json.Unmarshaler].
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	switch strings.ToLower(s) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid done flag %s", data)
	}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Envelope is the response body of every JSON route: {result: <data>} on
// success, {result: false, error: <details>} on failure.
type Envelope struct {
	Result any `json:"result"`
	Error  any `json:"error,omitempty"`
}

// OK wraps a successful result.
func OK(result any) Envelope {
	return Envelope{Result: result}
}

// Failure wraps an error into the failure shape.
func Failure(err error) Envelope {
	return Envelope{Result: false, Error: err.Error()}
}
