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

// Package verify runs commands against the emulated app and checks the prompts the user had to
// confirm, and the signatures returned.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/BitBoxSwiss/speculos-api-go/api/pokt"
	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/BitBoxSwiss/speculos-api-go/api/speculos"
	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"github.com/davecgh/go-spew/spew"
)

// TeardownTimeout bounds the requests of Teardown.
const TeardownTimeout = 10 * time.Second

// Emulator is the part of the Speculos control API the verifier needs. Implemented by
// speculos.Client.
type Emulator interface {
	SetAutomation(ctx context.Context, automation *speculos.Automation) error
	ClearEvents(ctx context.Context) error
	Events(ctx context.Context) ([]prompts.Event, error)
}

// Verifier runs commands and compares the resulting transcripts. Test cases must run one after
// the other against an emulator; call Teardown after each.
type Verifier struct {
	emulator Emulator
	runner   *Runner
	config   *Config
	log      Logger
}

// NewVerifier creates a new Verifier.
func NewVerifier(emulator Emulator, runner *Runner, config *Config, log Logger) *Verifier {
	return &Verifier{
		emulator: emulator,
		runner:   runner,
		config:   config,
		log:      log,
	}
}

// Verify arms the automation, runs command and compares the prompts it produced to expected.
// An error of the command is returned as is, without comparing prompts.
func (verifier *Verifier) Verify(ctx context.Context, command Command, expected prompts.Transcript) error {
	if err := verifier.emulator.SetAutomation(ctx, speculos.NewAutomation(&verifier.config.Layout)); err != nil {
		return err
	}
	if err := verifier.emulator.ClearEvents(ctx); err != nil {
		return err
	}
	if err := verifier.runner.Run(ctx, command); err != nil {
		verifier.log.Error("command failed", err)
		return err
	}
	events, err := verifier.emulator.Events(ctx)
	if err != nil {
		return err
	}
	verifier.log.Debug(fmt.Sprintf("%d events:\n%s", len(events), spew.Sdump(events)))
	actual := verifier.config.Layout.Aggregate(events)
	if err := Compare(expected, actual, verifier.config.Normalizer); err != nil {
		return err
	}
	if !prompts.Equal(actual, expected) {
		verifier.log.Info("transcript matched after normalization")
	}
	return nil
}

// VerifyPublicKey retrieves the public key at keypath and, if expectedPublicKey is not nil,
// checks it.
func (verifier *Verifier) VerifyPublicKey(
	ctx context.Context,
	keypath pokt.Keypath,
	expectedPublicKey []byte,
	expected prompts.Transcript,
) ([]byte, error) {
	var publicKey []byte
	err := verifier.Verify(ctx, func(ctx context.Context, device *pokt.Device) error {
		var err error
		publicKey, err = device.PublicKey(keypath)
		if err != nil {
			return err
		}
		if expectedPublicKey != nil && !bytes.Equal(publicKey, expectedPublicKey) {
			return errp.Newf("public key at %s is %x, expected %x", keypath, publicKey, expectedPublicKey)
		}
		return nil
	}, expected)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}

// VerifySigning signs payload at keypath and checks the prompts shown while signing. The public
// key is retrieved first, and its prompts are discarded. Once the prompts match, the signature
// is verified against the payload and the public key.
func (verifier *Verifier) VerifySigning(
	ctx context.Context,
	keypath pokt.Keypath,
	payload []byte,
	scheme SignatureScheme,
	expected prompts.Transcript,
) ([]byte, error) {
	var publicKey, signature []byte
	err := verifier.Verify(ctx, func(ctx context.Context, device *pokt.Device) error {
		var err error
		publicKey, err = device.PublicKey(keypath)
		if err != nil {
			return err
		}
		if err := verifier.emulator.ClearEvents(ctx); err != nil {
			return err
		}
		signature, err = device.SignTransaction(keypath, payload)
		return err
	}, expected)
	if err != nil {
		return nil, err
	}
	if !scheme.Verify(publicKey, payload, signature) {
		return nil, &SignatureError{PublicKey: publicKey, Signature: signature}
	}
	return signature, nil
}

// Teardown removes all automation rules and clears the event log, so nothing leaks into the next
// test case. Both steps are attempted; the first error is returned. Cancellation of ctx is
// ignored, the requests are bounded by TeardownTimeout instead.
func (verifier *Verifier) Teardown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), TeardownTimeout)
	defer cancel()
	err := verifier.emulator.SetAutomation(ctx, speculos.EmptyAutomation())
	if clearErr := verifier.emulator.ClearEvents(ctx); err == nil {
		err = clearErr
	}
	if err != nil {
		verifier.log.Error("teardown failed", err)
	}
	return err
}
