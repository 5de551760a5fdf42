package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StorageKey is the key the snapshot is stored under.
const StorageKey = "timers"

// Record is the persisted form of one timer.
type Record struct {
	// ID joins the record to the registry and presenter.
	ID RecordID `json:"id"`

	// Name is the displayed timer name.
	Name string `json:"name"`

	// TimeLeft is the remaining time in seconds at save time.
	TimeLeft int `json:"timeLeft"`

	// Color is the "#rrggbb" header color.
	Color string `json:"color"`

	// IsRunning is set when the timer had an active schedule.
	IsRunning bool `json:"isRunning"`

	// StartTime is the save time in epoch milliseconds for running timers.
	StartTime *int64 `json:"startTime"`
}

// RecordID is a timer id as found in a snapshot. Snapshots written by other
// front-ends may carry the id as a JSON string; both forms are accepted.
// Numeric ids are always written as JSON numbers.
type RecordID string

// NewRecordID returns the record id for a timer id.
func NewRecordID(id int) RecordID {
	return RecordID(strconv.Itoa(id))
}

// Int returns the numeric id. It reports false for non-numeric ids.
func (r RecordID) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(r)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON writes numeric ids as numbers and anything else as a string.
func (r RecordID) MarshalJSON() ([]byte, error) {
	if n, ok := r.Int(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON accepts a JSON number or string.
func (r *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RecordID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	if n, err := num.Int64(); err == nil {
		*r = RecordID(strconv.FormatInt(n, 10))
		return nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		*r = RecordID(num.String())
		return nil
	}
	*r = RecordID(strconv.FormatInt(int64(f), 10))
	return nil
}

// EncodeRecords marshals records as a JSON array. A nil slice encodes as [].
func EncodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// DecodeRecords parses a snapshot. A JSON null decodes as an empty list.
func DecodeRecords(data string) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	return records, nil
}
