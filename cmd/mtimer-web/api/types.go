// Package api implements the REST and event-stream API of mtimer-web.
package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/mtimer/mtimer-go/pkg/service"
	"github.com/mtimer/mtimer-go/pkg/timefmt"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// TimerResponse is one timer.
type TimerResponse = service.TimerInfo

// TimersResponse is the timer list.
type TimersResponse struct {
	Timers []service.TimerInfo `json:"timers"`
}

// LengthResponse reports the length actually applied after clamping.
type LengthResponse struct {
	Timer  service.TimerInfo `json:"timer"`
	Length timefmt.Length    `json:"length"`
}

// Field is a raw length input. Clients may send a JSON number or a string;
// both are passed through as text and parsed leniently.
type Field string

// UnmarshalJSON accepts a string, a number or null.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if v, err := n.Float64(); err == nil && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		*f = Field(strconv.FormatInt(int64(v), 10))
		return nil
	}
	*f = Field(n.String())
	return nil
}

// LengthRequest is the body of PUT /timers/{id}/length.
type LengthRequest struct {
	Hours   Field `json:"hours" validate:"max=16"`
	Minutes Field `json:"minutes" validate:"max=16"`
	Seconds Field `json:"seconds" validate:"max=16"`
}

// ColorRequest is the body of PUT /timers/{id}/color. An empty color selects
// the default.
type ColorRequest struct {
	Color string `json:"color" validate:"omitempty,iscolor"`
}

// NameRequest is the body of PUT /timers/{id}/name.
type NameRequest struct {
	Name string `json:"name" validate:"max=100"`
}
