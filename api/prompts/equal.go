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

// Equal compares two transcripts record by record. Order matters and every field must match
// exactly.
func Equal(a, b Transcript) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !RecordEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// RecordEqual compares two records. Records of different kinds are never equal.
func RecordEqual(a, b Record) bool {
	switch a := a.(type) {
	case Headered:
		b, ok := b.(Headered)
		return ok && a.Header == b.Header && a.Prompt == b.Prompt
	case Bare:
		b, ok := b.(Bare)
		return ok && EventEqual(a.Event, b.Event)
	}
	return false
}

// EventEqual compares text and both coordinates.
func EventEqual(a, b Event) bool {
	return a.Text == b.Text && a.X.Equal(b.X) && a.Y.Equal(b.Y)
}
