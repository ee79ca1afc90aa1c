package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
)

// ErrBadFrame marks any payload the decoders refuse. Callers drop the frame.
var ErrBadFrame = errors.New("bad frame")

func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return nil
}

// DecodeOrderEvent parses an order snapshot off the status stream. Anything
// without a positive id or with a status outside the state machine is
// rejected rather than trusted by shape.
func DecodeOrderEvent(b []byte) (domain.OrderSnapshot, error) {
	var snap domain.OrderSnapshot
	if err := decodeStrict(b, &snap); err != nil {
		return domain.OrderSnapshot{}, err
	}
	if snap.ID <= 0 {
		return domain.OrderSnapshot{}, fmt.Errorf("%w: missing order id", ErrBadFrame)
	}
	if !snap.Status.Valid() {
		return domain.OrderSnapshot{}, fmt.Errorf("%w: unknown status %q", ErrBadFrame, snap.Status)
	}
	return snap, nil
}

// DecodeErrorEvent parses a command rejection off the per-dealer error queue.
// The order id is optional in the observed payloads; the message list is not.
func DecodeErrorEvent(b []byte) (domain.ErrorEvent, error) {
	var ev domain.ErrorEvent
	if err := decodeStrict(b, &ev); err != nil {
		return domain.ErrorEvent{}, err
	}
	if len(ev.Errors) == 0 {
		return domain.ErrorEvent{}, fmt.Errorf("%w: empty error list", ErrBadFrame)
	}
	return ev, nil
}

// EncodeStatusCommand serializes an outbound status-change request.
func EncodeStatusCommand(cmd domain.StatusCommand) ([]byte, error) {
	if cmd.OrderID <= 0 || cmd.DealerID <= 0 {
		return nil, fmt.Errorf("%w: command needs order and dealer ids", ErrBadFrame)
	}
	if !cmd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadFrame, cmd.Status)
	}
	return json.Marshal(cmd)
}
