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
	"testing"

	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/stretchr/testify/require"
)

func confirmAt(x int) prompts.Bare {
	return prompts.Bare{Event: prompts.Event{Text: "Confirm", X: prompts.At(x), Y: prompts.At(11)}}
}

func TestCompare(t *testing.T) {
	expected := prompts.Transcript{
		prompts.Headered{Header: "Signing", Prompt: "Transaction"},
		confirmAt(43),
	}
	patch := prompts.NanoSPlusOCRPatch()

	require.NoError(t, Compare(expected, expected, nil))
	require.NoError(t, Compare(prompts.Transcript{}, nil, patch))

	ocr := prompts.Transcript{
		prompts.Headered{Header: "igning", Prompt: "Transaction"},
		confirmAt(41),
	}
	require.NoError(t, Compare(expected, ocr, patch))
	require.Error(t, Compare(expected, ocr, nil))

	// If the normalized comparison fails too, the original transcripts are reported.
	wrong := prompts.Transcript{
		prompts.Headered{Header: "igning", Prompt: "Message"},
		confirmAt(41),
	}
	err := Compare(expected, wrong, patch)
	mismatch, ok := err.(*MismatchError)
	require.True(t, ok)
	require.Equal(t, expected, mismatch.Expected)
	require.Equal(t, wrong, mismatch.Actual)
}

func TestMismatchError(t *testing.T) {
	err := &MismatchError{
		Expected: prompts.Transcript{
			prompts.Headered{Header: "Signing", Prompt: "Transaction"},
			confirmAt(43),
		},
		Actual: prompts.Transcript{
			prompts.Headered{Header: "Signing", Prompt: "Message"},
			confirmAt(43),
		},
	}
	require.Equal(t,
		"--- expected\n"+
			"+++ actual\n"+
			"@@ -1,2 +1,2 @@\n"+
			"-{header: \"Signing\", prompt: \"Transaction\"}\n"+
			"+{header: \"Signing\", prompt: \"Message\"}\n"+
			" "+confirmAt(43).String()+"\n",
		err.Diff())
	require.Contains(t, err.Error(), "transcript mismatch (2 expected, 2 actual prompts)")
}
