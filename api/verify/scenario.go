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
	"encoding/hex"
	"io"

	"github.com/BitBoxSwiss/speculos-api-go/api/pokt"
	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"gopkg.in/yaml.v3"
)

const (
	// CommandPublicKey retrieves a public key.
	CommandPublicKey = "public-key"
	// CommandSign signs a transaction.
	CommandSign = "sign"
)

// Scenario is one test case: a command, its input and the prompts it must show.
type Scenario struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
	Keypath string `yaml:"keypath"`
	// PublicKey is the hex encoded public key expected at Keypath. Optional.
	PublicKey string `yaml:"public_key,omitempty"`
	// Payload is the transaction to sign, as is.
	Payload string `yaml:"payload,omitempty"`
	// Scheme is the signature scheme name, see SchemeByName.
	Scheme   string             `yaml:"scheme,omitempty"`
	Expected prompts.Transcript `yaml:"expected"`
}

type scenarioFile struct {
	Scenarios []*Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a YAML file with a top level "scenarios" list.
func LoadScenarios(reader io.Reader) ([]*Scenario, error) {
	var file scenarioFile
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errp.WithMessage(errp.WithStack(err), "could not parse scenarios")
	}
	for _, scenario := range file.Scenarios {
		if err := scenario.validate(); err != nil {
			return nil, errp.WithMessagef(err, "scenario %q", scenario.Name)
		}
		if scenario.Expected == nil {
			scenario.Expected = prompts.Transcript{}
		}
	}
	return file.Scenarios, nil
}

func (scenario *Scenario) validate() error {
	if _, err := pokt.ParseKeypath(scenario.Keypath); err != nil {
		return err
	}
	if _, err := hex.DecodeString(scenario.PublicKey); err != nil {
		return errp.WithMessage(errp.WithStack(err), "invalid public key")
	}
	if _, err := SchemeByName(scenario.Scheme); err != nil {
		return err
	}
	switch scenario.Command {
	case CommandPublicKey:
	case CommandSign:
		if scenario.Payload == "" {
			return errp.New("missing payload")
		}
	default:
		return errp.Newf("unknown command: %q", scenario.Command)
	}
	return nil
}

// Check runs the scenario and tears down the emulator state afterwards, even if the scenario
// failed. A scenario error takes precedence over a teardown error.
func (verifier *Verifier) Check(ctx context.Context, scenario *Scenario) (err error) {
	defer func() {
		if teardownErr := verifier.Teardown(ctx); err == nil {
			err = teardownErr
		}
	}()
	if err := scenario.validate(); err != nil {
		return err
	}
	verifier.log.Info("running scenario " + scenario.Name)
	keypath, err := pokt.ParseKeypath(scenario.Keypath)
	if err != nil {
		return err
	}
	switch scenario.Command {
	case CommandPublicKey:
		var expectedPublicKey []byte
		if scenario.PublicKey != "" {
			expectedPublicKey, err = hex.DecodeString(scenario.PublicKey)
			if err != nil {
				return errp.WithStack(err)
			}
		}
		_, err = verifier.VerifyPublicKey(ctx, keypath, expectedPublicKey, scenario.Expected)
		return err
	case CommandSign:
		scheme, err := SchemeByName(scenario.Scheme)
		if err != nil {
			return err
		}
		_, err = verifier.VerifySigning(ctx, keypath, []byte(scenario.Payload), scheme, scenario.Expected)
		return err
	}
	return errp.Newf("unknown command: %q", scenario.Command)
}
