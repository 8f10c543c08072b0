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
	"context"

	"github.com/BitBoxSwiss/speculos-api-go/api/pokt"
)

// Command is one interaction with the app. Its error is reported as is.
type Command func(ctx context.Context, device *pokt.Device) error

// Opener opens a new transport session.
type Opener func(ctx context.Context) (pokt.Communication, error)

// Runner runs commands, each in its own transport session.
type Runner struct {
	open Opener
}

// NewRunner creates a new Runner.
func NewRunner(open Opener) *Runner {
	return &Runner{open: open}
}

// Run opens a session, runs command and closes the session again.
func (runner *Runner) Run(ctx context.Context, command Command) error {
	communication, err := runner.open(ctx)
	if err != nil {
		return err
	}
	device := pokt.NewDevice(communication)
	defer device.Close()
	return command(ctx, device)
}
