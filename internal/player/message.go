package player

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	EventReady        = "onReady"
	EventStateChange  = "onStateChange"
	EventInfoDelivery = "infoDelivery"
)

var ErrUnsupportedPayload = errors.New("unsupported payload")

type Message struct {
	Event string          `json:"event"`
	Info  json.RawMessage `json:"info,omitempty"`
}

// Info is the structured infoDelivery payload. Nil fields were not sent.
type Info struct {
	CurrentTime *float64 `json:"currentTime"`
	Duration    *float64 `json:"duration"`
}

// Parse decodes an inbound payload. Textual payloads are JSON-decoded;
// already-decoded maps are accepted as well.
func Parse(raw any) (Message, error) {
	var data []byte
	switch v := raw.(type) {
	case Message:
		return v, nil
	case *Message:
		if v == nil {
			return Message{}, ErrUnsupportedPayload
		}
		return *v, nil
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		data = b
	default:
		return Message{}, fmt.Errorf("%w: %T", ErrUnsupportedPayload, raw)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}

	return msg, nil
}

func (m Message) hasInfo() bool {
	info := bytes.TrimSpace(m.Info)
	return len(info) > 0 && !bytes.Equal(info, []byte("null"))
}

// number reports the info payload as a bare number, if it is one.
func (m Message) number() (float64, bool) {
	if !m.hasInfo() {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(m.Info, &n); err != nil {
		return 0, false
	}

	return n, true
}

// object reports the info payload as a structured object, if it is one.
func (m Message) object() (Info, bool) {
	info := bytes.TrimSpace(m.Info)
	if len(info) == 0 || info[0] != '{' {
		return Info{}, false
	}

	var i Info
	if err := json.Unmarshal(info, &i); err != nil {
		return Info{}, false
	}

	return i, true
}
