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

import "strings"

// Normalizer rewrites both sides of a comparison to absorb a known rendering defect. It works on
// whole transcripts, after aggregation.
type Normalizer interface {
	// PatchActual rewrites the transcript captured from the emulator.
	PatchActual(Transcript) Transcript
	// PatchExpected rewrites the expected transcript.
	PatchExpected(Transcript) Transcript
}

// OCRPatch compensates for text recognition that drops or misreads letters. The horizontal
// position of bare events is replaced by PatchedCoord on both sides, as it is unreliable too.
type OCRPatch struct {
	replacer *strings.Replacer
}

// NewOCRPatch takes old/new string pairs like strings.NewReplacer.
func NewOCRPatch(oldnew ...string) *OCRPatch {
	return &OCRPatch{replacer: strings.NewReplacer(oldnew...)}
}

// NanoSPlusOCRPatch matches the Speculos text recognition on the Nano S Plus, which loses every
// "S" and reads "I" as "l".
// See https://github.com/LedgerHQ/speculos/issues/204.
func NanoSPlusOCRPatch() *OCRPatch {
	return NewOCRPatch("S", "", "I", "l")
}

// PatchActual implements Normalizer. Only coordinates are touched: the text already went through
// the defective recognition.
func (patch *OCRPatch) PatchActual(transcript Transcript) Transcript {
	patched := make(Transcript, len(transcript))
	for i, record := range transcript {
		if bare, ok := record.(Bare); ok && bare.Text != "" {
			bare.X = PatchedCoord
			record = bare
		}
		patched[i] = record
	}
	return patched
}

// PatchExpected implements Normalizer.
func (patch *OCRPatch) PatchExpected(transcript Transcript) Transcript {
	patched := make(Transcript, len(transcript))
	for i, record := range transcript {
		switch r := record.(type) {
		case Headered:
			r.Header = patch.replacer.Replace(r.Header)
			r.Prompt = patch.replacer.Replace(r.Prompt)
			record = r
		case Bare:
			if r.Text != "" {
				r.Text = patch.replacer.Replace(r.Text)
				r.X = PatchedCoord
				record = r
			}
		}
		patched[i] = record
	}
	return patched
}
