package mq

import (
	"encoding/json"
	"errors"
	"fmt"

	"linkrelay/internal/model"
)

// ClickEventTag tags click event messages on the topic
const ClickEventTag = "click_event"

// ErrInvalidMessage is returned for a message that can never be processed
var ErrInvalidMessage = errors.New("invalid click event message")

// encodeClickEvent renders the wire form of a click event
func encodeClickEvent(msg *model.ClickEventMessage) ([]byte, error) {
	if msg.EventID == "" || msg.LinkID <= 0 {
		return nil, ErrInvalidMessage
	}
	return json.Marshal(msg)
}

// decodeClickEvent parses a message body back into a click event
func decodeClickEvent(body []byte) (*model.ClickEvent, error) {
	var msg model.ClickEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.EventID == "" || msg.LinkID <= 0 {
		return nil, ErrInvalidMessage
	}
	return msg.Event(), nil
}
