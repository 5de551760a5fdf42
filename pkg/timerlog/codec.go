package timerlog

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrPayloadMismatch is returned for events whose payload does not belong to
// their category, or that carry more than one payload.
var ErrPayloadMismatch = errors.New("event payload does not match category")

// codec holds the CBOR modes of the .tlog format: canonical maps with the
// integer keys declared on Event, timestamps as RFC 3339 text.
type codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var events = newCodec()

func newCodec() codec {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("timerlog: encoder mode: %v", err))
	}

	// Older files may contain repeated keys; the last one wins.
	dec, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyQuiet,
		IndefLength:     cbor.IndefLengthAllowed,
		MaxNestedLevels: 8,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("timerlog: decoder mode: %v", err))
	}
	return codec{enc: enc, dec: dec}
}

// check reports ErrPayloadMismatch unless the event carries at most one
// payload and that payload matches its category.
func (e Event) check() error {
	var set []Category
	if e.StateChange != nil {
		set = append(set, CategoryState)
	}
	if e.Snapshot != nil {
		set = append(set, CategorySnapshot)
	}
	if e.Error != nil {
		set = append(set, CategoryError)
	}

	switch {
	case len(set) > 1:
		return fmt.Errorf("%w: %d payloads", ErrPayloadMismatch, len(set))
	case len(set) == 1 && set[0] != e.Category:
		return fmt.Errorf("%w: %s event with %s payload", ErrPayloadMismatch, e.Category, set[0])
	}
	return nil
}

// EncodeEvent encodes one event as a single CBOR item.
func EncodeEvent(event Event) ([]byte, error) {
	if err := event.check(); err != nil {
		return nil, err
	}
	return events.enc.Marshal(event)
}

// DecodeEvent decodes a single CBOR item produced by EncodeEvent.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := events.dec.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := event.check(); err != nil {
		return Event{}, err
	}
	return event, nil
}

func newStreamDecoder(r io.Reader) *cbor.Decoder {
	return events.dec.NewDecoder(r)
}
