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

package verify

import (
	"fmt"

	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/pmezard/go-difflib/difflib"
)

// MismatchError is returned when the captured transcript differs from the expected one. It always
// holds the transcripts as they were before any normalization.
type MismatchError struct {
	Expected prompts.Transcript
	Actual   prompts.Transcript
}

// Diff returns a unified diff from the expected to the actual transcript, one record per line.
func (e *MismatchError) Diff() string {
	lines := func(transcript prompts.Transcript) []string {
		result := transcript.Lines()
		for i := range result {
			result[i] += "\n"
		}
		return result
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(e.Expected),
		B:        lines(e.Actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

// Error implements error.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("transcript mismatch (%d expected, %d actual prompts):\n%s",
		len(e.Expected), len(e.Actual), e.Diff())
}

// SignatureError is returned when the transcript matched but the signature does not verify.
type SignatureError struct {
	PublicKey []byte
	Signature []byte
}

// Error implements error.
func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid signature %x for public key %x", e.Signature, e.PublicKey)
}

// Compare checks actual against expected. If they differ and normalizer is not nil, both sides
// are normalized and compared again. When that fails too, the mismatch of the original
// transcripts is returned, as it is the more useful one.
func Compare(expected, actual prompts.Transcript, normalizer prompts.Normalizer) error {
	if prompts.Equal(actual, expected) {
		return nil
	}
	if normalizer != nil &&
		prompts.Equal(normalizer.PatchActual(actual), normalizer.PatchExpected(expected)) {
		return nil
	}
	return &MismatchError{Expected: expected, Actual: actual}
}
