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

package speculos

import (
	"encoding/json"

	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
)

// automationVersion is the only automation format Speculos understands.
const automationVersion = 1

// Button identifies one of the two device buttons.
type Button int

const (
	// ButtonLeft is button 1.
	ButtonLeft Button = 1
	// ButtonRight is button 2.
	ButtonRight Button = 2
)

// Action presses or releases a button.
type Action struct {
	Button  Button
	Pressed bool
}

// Press returns the action pressing button.
func Press(button Button) Action { return Action{Button: button, Pressed: true} }

// Release returns the action releasing button.
func Release(button Button) Action { return Action{Button: button, Pressed: false} }

// MarshalJSON encodes the action as ["button", <num>, <pressed>].
func (action Action) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{"button", int(action.Button), action.Pressed})
}

// UnmarshalJSON implements json.Unmarshaler.
func (action *Action) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return errp.WithStack(err)
	}
	if len(fields) != 3 {
		return errp.Newf("expected 3 fields in action, got %d", len(fields))
	}
	var kind string
	if err := json.Unmarshal(fields[0], &kind); err != nil {
		return errp.WithStack(err)
	}
	if kind != "button" {
		return errp.Newf("unsupported action: %s", kind)
	}
	if err := json.Unmarshal(fields[1], &action.Button); err != nil {
		return errp.WithStack(err)
	}
	return errp.WithStack(json.Unmarshal(fields[2], &action.Pressed))
}

// Rule tells the emulator how to react to a screen. A rule with neither Text nor Y matches every
// screen. An empty action list dismisses the screen without input.
type Rule struct {
	Text    string   `json:"text,omitempty"`
	Y       *int     `json:"y,omitempty"`
	Actions []Action `json:"actions"`
}

// Automation is the payload of POST /automation.
type Automation struct {
	Version int    `json:"version"`
	Rules   []Rule `json:"rules"`
}

// EmptyAutomation removes all rules.
func EmptyAutomation() *Automation {
	return &Automation{Version: automationVersion, Rules: []Rule{}}
}

// ConfirmText is the text of the screen approving a command.
const ConfirmText = "Confirm"

// NewAutomation builds the rules accepting every command: ignored screens and body lines are
// dismissed silently, "Confirm" is approved with both buttons, and any other screen is advanced
// with the right button.
func NewAutomation(layout *prompts.Layout) *Automation {
	rules := make([]Rule, 0, len(layout.Ignored)+len(layout.BodyLines)+2)
	for _, text := range layout.Ignored {
		rules = append(rules, Rule{Text: text, Actions: []Action{}})
	}
	for _, line := range layout.BodyLines {
		line := line
		rules = append(rules, Rule{Y: &line, Actions: []Action{}})
	}
	rules = append(rules,
		Rule{
			Text: ConfirmText,
			Actions: []Action{
				Press(ButtonLeft),
				Press(ButtonRight),
				Release(ButtonRight),
				Release(ButtonLeft),
			},
		},
		Rule{
			Actions: []Action{
				Press(ButtonRight),
				Release(ButtonRight),
			},
		},
	)
	return &Automation{Version: automationVersion, Rules: rules}
}
