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

package prompts

// Layout describes where a device draws header and body lines, and which screens never carry
// prompt content.
type Layout struct {
	// HeaderLine is the y coordinate of the title line.
	HeaderLine int
	// BodyLines are the y coordinates of the body lines, top to bottom.
	BodyLines []int
	// Ignored lists the texts of greeting, navigation and version screens.
	Ignored []string
}

func (layout *Layout) isIgnored(text string) bool {
	for _, ignored := range layout.Ignored {
		if text == ignored {
			return true
		}
	}
	return false
}

func (layout *Layout) isBody(y Coord) bool {
	for _, line := range layout.BodyLines {
		if y.Is(line) {
			return true
		}
	}
	return false
}

// Filter returns the events whose text is not ignored, in their original order.
func (layout *Layout) Filter(events []Event) []Event {
	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		if !layout.isIgnored(event.Text) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// Aggregate collapses the raw event log of one command into a transcript.
//
// A header line starts a new record unless it repeats the current header. Body lines are
// appended to the current prompt without a separator. Any other event flushes the current record
// and is passed through as Bare. Records with neither header nor prompt are never emitted.
func (layout *Layout) Aggregate(events []Event) Transcript {
	transcript := Transcript{}
	var header, prompt string
	flush := func() {
		if header != "" || prompt != "" {
			transcript = append(transcript, Headered{Header: header, Prompt: prompt})
		}
	}
	for _, event := range layout.Filter(events) {
		switch {
		case event.Y.Is(layout.HeaderLine):
			if event.Text != header {
				flush()
				header = event.Text
				prompt = ""
			}
		case layout.isBody(event.Y):
			prompt += event.Text
		default:
			flush()
			transcript = append(transcript, Bare{Event: event})
			header = ""
			prompt = ""
		}
	}
	flush()
	return transcript
}

// Disaggregate renders a transcript back into positional events, one header line and at most one
// body line per headered record. Aggregating the result yields the transcript again.
func (layout *Layout) Disaggregate(transcript Transcript) []Event {
	var events []Event
	var previous Record
	for _, record := range transcript {
		switch record := record.(type) {
		case Headered:
			if p, ok := previous.(Headered); ok && p.Header == record.Header {
				// An empty header line separates two records with the same title.
				events = append(events, Event{Y: At(layout.HeaderLine)})
			}
			events = append(events, Event{Text: record.Header, Y: At(layout.HeaderLine)})
			if record.Prompt != "" && len(layout.BodyLines) > 0 {
				events = append(events, Event{Text: record.Prompt, Y: At(layout.BodyLines[0])})
			}
		case Bare:
			events = append(events, record.Event)
		}
		previous = record
	}
	return events
}
