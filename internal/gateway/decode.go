package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotDispatch is returned by Decode for frames that carry no dispatch
// type (heartbeats, hello, acks).
var ErrNotDispatch = errors.New("gateway: frame is not a dispatch")

// Frame is the envelope the gateway sends over the websocket.
type Frame struct {
	Op       int             `json:"op"`
	Type     Kind            `json:"t"`
	Sequence *int64          `json:"s"`
	Data     json.RawMessage `json:"d"`
}

var constructors = map[Kind]func() Event{
	KindGuildCreate:       func() Event { return new(GuildCreate) },
	KindInteractionCreate: func() Event { return new(InteractionCreate) },
	KindMessageCreate:     func() Event { return new(MessageCreate) },
	KindReady:             func() Event { return new(Ready) },
	KindShardConnecting:   func() Event { return new(ShardConnecting) },
	KindShardConnected:    func() Event { return new(ShardConnected) },
	KindShardReconnecting: func() Event { return new(ShardReconnecting) },
	KindShardDisconnected: func() Event { return new(ShardDisconnected) },
	KindShardIdentifying:  func() Event { return new(ShardIdentifying) },
}

// Decode parses one gateway frame into its typed event. Dispatch types this
// build does not model decode to *Unknown rather than failing.
func Decode(data []byte) (Event, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("failed to decode gateway frame: %w", err)
	}
	return DecodeFrame(frame)
}

// DecodeFrame converts an already parsed frame.
func DecodeFrame(frame Frame) (Event, error) {
	if frame.Type == "" {
		return nil, ErrNotDispatch
	}

	newEvent, ok := constructors[frame.Type]
	if !ok {
		return &Unknown{Type: frame.Type, Data: frame.Data}, nil
	}

	event := newEvent()
	if len(frame.Data) > 0 {
		if err := json.Unmarshal(frame.Data, event); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", frame.Type, err)
		}
	}
	return event, nil
}
