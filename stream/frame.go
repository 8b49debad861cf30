package stream

import (
	"encoding/json"
	"fmt"

	"github.com/matt-g-everett/ledstep/anim"
)

// FrameUpdate carries one target's values on the wire.
type FrameUpdate struct {
	Target string     `json:"target"`
	Values anim.Props `json:"values"`
}

// Frame is one applied batch of updates as published to renderers.
type Frame struct {
	Click   int           `json:"click"`
	Updates []FrameUpdate `json:"updates"`
}

// NewFrame converts a batch of updates for the wire.
func NewFrame(click int, updates []anim.Update) *Frame {
	f := &Frame{Click: click, Updates: make([]FrameUpdate, 0, len(updates))}
	for _, u := range updates {
		f.Updates = append(f.Updates, FrameUpdate{Target: TargetName(u.Target), Values: u.Values})
	}
	return f
}

// TargetName is the wire name of o: its Name if it has one, otherwise its
// address.
func TargetName(o anim.Object) string {
	if n, ok := o.(anim.Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%p", o)
}

// MarshalBinary encodes the Frame as JSON.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	return json.Marshal(f)
}

// UnmarshalBinary decodes a Frame produced by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, f)
}
