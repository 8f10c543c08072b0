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

package verify_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/BitBoxSwiss/speculos-api-go/api/pokt"
	"github.com/BitBoxSwiss/speculos-api-go/api/pokt/mocks"
	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/BitBoxSwiss/speculos-api-go/api/speculos"
	"github.com/BitBoxSwiss/speculos-api-go/api/verify"
	"github.com/stretchr/testify/require"
)

func TestLoadScenarios(t *testing.T) {
	file, err := os.Open("../../scenarios/pokt.yaml")
	require.NoError(t, err)
	defer file.Close()
	scenarios, err := verify.LoadScenarios(file)
	require.NoError(t, err)
	require.Len(t, scenarios, 5)

	require.Equal(t, verify.CommandPublicKey, scenarios[0].Command)
	require.Equal(t, testPublicKey, scenarios[0].PublicKey)
	require.NotNil(t, scenarios[0].Expected)
	require.Empty(t, scenarios[0].Expected)

	transfer := scenarios[1]
	require.Equal(t, verify.CommandSign, transfer.Command)
	require.Equal(t, "44'/635'/0/0", transfer.Keypath)
	require.True(t, strings.HasPrefix(transfer.Payload, `{"chain_id":"testnet","entropy":"-7780543831205109370"`))
	require.Len(t, transfer.Expected, 7)
	require.Equal(t,
		prompts.Headered{Header: "Transfer To", Prompt: "db987ccfa2a71b2ec9a56c88c77a7cf66d01d8ba"},
		transfer.Expected[5])
	require.True(t, prompts.RecordEqual(confirm, transfer.Expected[6]))
}

func TestLoadScenariosInvalid(t *testing.T) {
	for _, yaml := range []string{
		"scenarios: [",
		"scenarios:\n  - name: a\n    command: sign\n    keypath: m/44'\n",
		"scenarios:\n  - name: a\n    command: reboot\n    keypath: m/44'\n",
		"scenarios:\n  - name: a\n    command: public-key\n    keypath: m/x\n",
		"scenarios:\n  - name: a\n    command: public-key\n    keypath: m/44'\n    public_key: zz\n",
		"scenarios:\n  - name: a\n    command: sign\n    keypath: m/44'\n    payload: '{}'\n    scheme: rsa\n",
		"scenarios:\n  - name: a\n    command: public-key\n    keypath: m/44'\n    unknown: 1\n",
		"scenarios:\n  - name: a\n    command: public-key\n    keypath: m/44'\n    expected:\n      - heder: Signing\n",
	} {
		_, err := verify.LoadScenarios(strings.NewReader(yaml))
		require.Error(t, err, yaml)
	}

	scenarios, err := verify.LoadScenarios(strings.NewReader(
		"scenarios:\n  - name: a\n    command: public-key\n    keypath: m/44'\n"))
	require.NoError(t, err)
	require.Equal(t, prompts.Transcript{}, scenarios[0].Expected)
}

func TestCheck(t *testing.T) {
	scenario := loadScenario(t, "can sign a simple transfer")
	env := newTestEnv(verify.DefaultConfig())
	env.app.signScreens = env.screens(scenario.Expected)
	require.NoError(t, env.verifier.Check(context.Background(), scenario))
	require.Equal(t,
		[]string{"automation", "clear", "clear", "events", "automation", "clear"},
		env.emulator.calls)
	require.Equal(t, speculos.EmptyAutomation(), env.emulator.automations[1])

	scenario = loadScenario(t, "provides a public key")
	env = newTestEnv(verify.DefaultConfig())
	env.app.publicKey = unhex(testPublicKey)
	require.NoError(t, env.verifier.Check(context.Background(), scenario))
}

func TestCheckTeardownOnFailure(t *testing.T) {
	scenario := loadScenario(t, "can sign a simple unstake")
	env := newTestEnv(verify.DefaultConfig())
	env.app.rejected = true
	err := env.verifier.Check(context.Background(), scenario)
	require.Equal(t, pokt.StatusError(0x6985), err)
	require.Equal(t, []string{"automation", "clear", "clear", "automation", "clear"}, env.emulator.calls)

	// The scenario error wins over the teardown error.
	env = newTestEnv(verify.DefaultConfig())
	env.app.rejected = true
	env.verifier = verify.NewVerifier(
		&failingTeardown{fakeEmulator: env.emulator, err: errors.New("teardown")},
		verify.NewRunner(env.app.open), env.config, &mocks.Logger{})
	err = env.verifier.Check(context.Background(), scenario)
	require.Equal(t, pokt.StatusError(0x6985), err)

	// A teardown error is reported if the scenario passed.
	env = newTestEnv(verify.DefaultConfig())
	env.app.signScreens = env.screens(scenario.Expected)
	teardownErr := errors.New("teardown")
	env.verifier = verify.NewVerifier(
		&failingTeardown{fakeEmulator: env.emulator, err: teardownErr},
		verify.NewRunner(env.app.open), env.config, &mocks.Logger{})
	require.Equal(t, teardownErr, env.verifier.Check(context.Background(), scenario))
}

// failingTeardown fails when the automation is removed.
type failingTeardown struct {
	*fakeEmulator
	err error
}

func (emulator *failingTeardown) SetAutomation(ctx context.Context, automation *speculos.Automation) error {
	if err := emulator.fakeEmulator.SetAutomation(ctx, automation); err != nil {
		return err
	}
	if len(automation.Rules) == 0 {
		return emulator.err
	}
	return nil
}

func TestCheckTeardownAfterCancel(t *testing.T) {
	type request struct{ method, path, body string }
	var (
		mutex    sync.Mutex
		requests []request
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Error(err)
		}
		mutex.Lock()
		requests = append(requests, request{method: r.Method, path: r.URL.Path, body: string(body)})
		mutex.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := speculos.NewClient(server.URL, server.Client())
	runner := verify.NewRunner(func(ctx context.Context) (pokt.Communication, error) {
		return client.APDU(ctx), nil
	})
	verifier := verify.NewVerifier(client, runner, verify.DefaultConfig(), &mocks.Logger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := verifier.Check(ctx, loadScenario(t, "can sign a simple stake"))
	require.ErrorIs(t, err, context.Canceled)

	mutex.Lock()
	defer mutex.Unlock()
	require.GreaterOrEqual(t, len(requests), 2)
	teardown := requests[len(requests)-2:]
	require.Equal(t, http.MethodPost, teardown[0].method)
	require.Equal(t, "/automation", teardown[0].path)
	require.JSONEq(t, `{"version": 1, "rules": []}`, teardown[0].body)
	require.Equal(t, request{method: http.MethodDelete, path: "/events"}, teardown[1])
}
