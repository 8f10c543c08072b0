// Copyright 2026 Shift Crypto AG
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompts turns the screen-draw events reported by the emulator into prompt records that
// can be compared against an expected transcript.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"gopkg.in/yaml.v3"
)

// patchedMarker is how a patched coordinate is encoded.
const patchedMarker = "<patched>"

// Coord is an optional screen coordinate. A patched coordinate is a wildcard whose value is
// ignored.
type Coord struct {
	Value   int
	Set     bool
	Patched bool
}

// At returns a coordinate set to value.
func At(value int) Coord {
	return Coord{Value: value, Set: true}
}

// PatchedCoord is the placeholder that replaces unreliable coordinates.
var PatchedCoord = Coord{Set: true, Patched: true}

// Is returns true if the coordinate is set, not patched, and equal to value.
func (coord Coord) Is(value int) bool {
	return coord.Set && !coord.Patched && coord.Value == value
}

// Equal compares two coordinates. All patched coordinates are equal, as are all unset ones.
func (coord Coord) Equal(other Coord) bool {
	if coord.Set != other.Set || coord.Patched != other.Patched {
		return false
	}
	if !coord.Set || coord.Patched {
		return true
	}
	return coord.Value == other.Value
}

func (coord Coord) String() string {
	switch {
	case !coord.Set:
		return "<unset>"
	case coord.Patched:
		return patchedMarker
	}
	return fmt.Sprint(coord.Value)
}

// MarshalJSON implements json.Marshaler.
func (coord Coord) MarshalJSON() ([]byte, error) {
	if coord.Patched {
		return json.Marshal(patchedMarker)
	}
	return json.Marshal(coord.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (coord *Coord) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		if marker != patchedMarker {
			return errp.Newf("invalid coordinate: %q", marker)
		}
		*coord = PatchedCoord
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return errp.WithMessage(errp.WithStack(err), "invalid coordinate")
	}
	*coord = At(value)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (coord Coord) MarshalYAML() (interface{}, error) {
	if coord.Patched {
		return patchedMarker, nil
	}
	return coord.Value, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (coord *Coord) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!null" {
		*coord = Coord{}
		return nil
	}
	if value.Value == patchedMarker {
		*coord = PatchedCoord
		return nil
	}
	var v int
	if err := value.Decode(&v); err != nil {
		return errp.WithMessage(errp.WithStack(err), "invalid coordinate")
	}
	*coord = At(v)
	return nil
}

// Event is one screen-draw event as reported by the emulator.
type Event struct {
	Text string
	X    Coord
	Y    Coord
}

func (event Event) String() string {
	var fields []string
	if event.Text != "" {
		fields = append(fields, fmt.Sprintf("text: %q", event.Text))
	}
	if event.X.Set {
		fields = append(fields, "x: "+event.X.String())
	}
	if event.Y.Set {
		fields = append(fields, "y: "+event.Y.String())
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// wireRecord is the JSON/YAML form of events and records.
type wireRecord struct {
	Header *string `json:"header,omitempty" yaml:"header,omitempty"`
	Prompt *string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Text   *string `json:"text,omitempty" yaml:"text,omitempty"`
	X      *Coord  `json:"x,omitempty" yaml:"x,omitempty"`
	Y      *Coord  `json:"y,omitempty" yaml:"y,omitempty"`
}

func (event Event) wire() wireRecord {
	var w wireRecord
	if event.Text != "" {
		text := event.Text
		w.Text = &text
	}
	if event.X.Set {
		x := event.X
		w.X = &x
	}
	if event.Y.Set {
		y := event.Y
		w.Y = &y
	}
	return w
}

func (w wireRecord) event() Event {
	var event Event
	if w.Text != nil {
		event.Text = *w.Text
	}
	if w.X != nil {
		event.X = *w.X
	}
	if w.Y != nil {
		event.Y = *w.Y
	}
	return event
}

func (w wireRecord) record() Record {
	if w.Header != nil || w.Prompt != nil {
		var record Headered
		if w.Header != nil {
			record.Header = *w.Header
		}
		if w.Prompt != nil {
			record.Prompt = *w.Prompt
		}
		return record
	}
	return Bare{Event: w.event()}
}

// MarshalJSON implements json.Marshaler.
func (event Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(event.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (event *Event) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return errp.WithStack(err)
	}
	*event = w.event()
	return nil
}

// Record is one aggregated prompt: either Headered or Bare.
type Record interface {
	fmt.Stringer
	wire() wireRecord
}

// Headered is a screen with a title line and the concatenated body lines.
type Headered struct {
	Header string
	Prompt string
}

func (record Headered) String() string {
	return fmt.Sprintf("{header: %q, prompt: %q}", record.Header, record.Prompt)
}

func (record Headered) wire() wireRecord {
	header, prompt := record.Header, record.Prompt
	return wireRecord{Header: &header, Prompt: &prompt}
}

// Bare is an event that does not fit the header/body convention, such as the final "Confirm"
// screen. Its position is kept.
type Bare struct {
	Event
}

func (record Bare) String() string {
	return record.Event.String()
}

func (record Bare) wire() wireRecord {
	return record.Event.wire()
}

// Transcript is the ordered list of prompts produced by one command.
type Transcript []Record

// Lines renders one record per line.
func (transcript Transcript) Lines() []string {
	lines := make([]string, len(transcript))
	for i, record := range transcript {
		lines[i] = record.String()
	}
	return lines
}

func (transcript Transcript) wire() []wireRecord {
	records := make([]wireRecord, len(transcript))
	for i, record := range transcript {
		records[i] = record.wire()
	}
	return records
}

func fromWire(records []wireRecord) Transcript {
	transcript := make(Transcript, len(records))
	for i, w := range records {
		transcript[i] = w.record()
	}
	return transcript
}

// MarshalJSON implements json.Marshaler.
func (transcript Transcript) MarshalJSON() ([]byte, error) {
	return json.Marshal(transcript.wire())
}

// UnmarshalJSON implements json.Unmarshaler. Objects with a "header" or "prompt" key decode as
// Headered, all others as Bare.
func (transcript *Transcript) UnmarshalJSON(data []byte) error {
	var records []wireRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return errp.WithStack(err)
	}
	*transcript = fromWire(records)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (transcript Transcript) MarshalYAML() (interface{}, error) {
	return transcript.wire(), nil
}

// wireKeys are the keys a record may have.
var wireKeys = map[string]bool{"header": true, "prompt": true, "text": true, "x": true, "y": true}

// UnmarshalYAML implements yaml.Unmarshaler, with the same rules as UnmarshalJSON. Unknown keys
// are rejected.
func (transcript *Transcript) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		for _, item := range value.Content {
			if item.Kind != yaml.MappingNode {
				continue
			}
			for i := 0; i+1 < len(item.Content); i += 2 {
				if key := item.Content[i]; !wireKeys[key.Value] {
					return errp.Newf("line %d: unknown record key %q", key.Line, key.Value)
				}
			}
		}
	}
	var records []wireRecord
	if err := value.Decode(&records); err != nil {
		return errp.WithStack(err)
	}
	*transcript = fromWire(records)
	return nil
}
