package api

import (
	"encoding/json"
	"fmt"
	"io"
)

// Channel exchanges the protocol values over a stream, one json value per line.
type Channel struct {
	dec *json.Decoder
	enc *json.Encoder
}

// NewChannel creates a new channel on top of the given stream.
func NewChannel(rw io.ReadWriter) *Channel {
	return &Channel{
		dec: json.NewDecoder(rw),
		enc: json.NewEncoder(rw),
	}
}

// Send writes the value to the stream.
func (c *Channel) Send(v interface{}) error {
	if err := c.enc.Encode(v); err != nil {
		return fmt.Errorf("could not send '%T': %v: %w", v, err, ConnectionErr)
	}
	return nil
}

// Receive reads the next value from the stream into v.
// A value that does not fit v is consumed and reported as InvalidRequestErr.
func (c *Channel) Receive(v interface{}) error {
	var raw json.RawMessage
	if err := c.dec.Decode(&raw); err != nil {
		return fmt.Errorf("could not read from stream: %v: %w", err, ConnectionErr)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unexpected value '%s' for '%T': %w", string(raw), v, InvalidRequestErr)
	}
	return nil
}

// ReceiveInt reads the next value as an integer.
func (c *Channel) ReceiveInt() (int, error) {
	var i int
	err := c.Receive(&i)
	return i, err
}

// ReceiveString reads the next value as a string.
func (c *Channel) ReceiveString() (string, error) {
	var s string
	err := c.Receive(&s)
	return s, err
}
