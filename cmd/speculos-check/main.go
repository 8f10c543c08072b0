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

// Package main runs scenario files against a running Speculos instance with the Pocket app
// loaded.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/BitBoxSwiss/speculos-api-go/api/common"
	"github.com/BitBoxSwiss/speculos-api-go/api/pokt"
	"github.com/BitBoxSwiss/speculos-api-go/api/speculos"
	"github.com/BitBoxSwiss/speculos-api-go/api/verify"
	"github.com/BitBoxSwiss/speculos-api-go/communication/apdutcp"
	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"github.com/BitBoxSwiss/speculos-api-go/util/semver"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements verify.Logger.
type zapLogger struct {
	log *zap.Logger
}

func (logger zapLogger) Error(msg string, err error) {
	logger.log.Error(msg, zap.Error(err))
}

func (logger zapLogger) Info(msg string) {
	logger.log.Info(msg)
}

func (logger zapLogger) Debug(msg string) {
	logger.log.Debug(msg)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		url        string
		apduAddr   string
		model      string
		scenarios  string
		appVersion string
		debug      bool
	)
	flagSet := pflag.NewFlagSet("speculos-check", pflag.ContinueOnError)
	flagSet.StringVar(&url, "url", speculos.DefaultURL, "Speculos API URL")
	flagSet.StringVar(&apduAddr, "apdu", "",
		"exchange APDUs over the raw TCP port at this address (e.g. "+apdutcp.DefaultAddress+
			") instead of the API")
	flagSet.StringVar(&model, "model", "", "emulated model: nanos or nanosp (default: any)")
	flagSet.StringVar(&scenarios, "scenarios", "scenarios/pokt.yaml", "scenario file")
	flagSet.StringVar(&appVersion, "app-version", verify.AppVersion.String(),
		"app version shown on the version screen")
	flagSet.BoolVar(&debug, "debug", false, "log raw events")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	config := verify.DefaultConfig()
	if model != "" {
		product, err := common.ProductFromModel(model)
		if err != nil {
			return err
		}
		if config, err = verify.ConfigFor(product); err != nil {
			return err
		}
	}
	version, err := semver.NewSemVerFromString(appVersion)
	if err != nil {
		return err
	}
	config.Layout.Ignored = verify.IgnoredScreens(verify.AppName, version)

	zapConfig := zap.NewProductionConfig()
	if debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := zapConfig.Build()
	if err != nil {
		return errp.WithStack(err)
	}
	defer func() { _ = log.Sync() }()

	file, err := os.Open(scenarios)
	if err != nil {
		return errp.WithStack(err)
	}
	defer file.Close()
	loaded, err := verify.LoadScenarios(file)
	if err != nil {
		return err
	}

	client := speculos.NewClient(url, nil)
	open := func(ctx context.Context) (pokt.Communication, error) {
		return client.APDU(ctx), nil
	}
	logger := zapLogger{log: log}
	if apduAddr != "" {
		open = func(ctx context.Context) (pokt.Communication, error) {
			return apdutcp.Dial(apduAddr, logger)
		}
	}
	verifier := verify.NewVerifier(client, verify.NewRunner(open), config, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	failed := 0
	for _, scenario := range loaded {
		err := verifier.Check(ctx, scenario)
		if err == nil {
			fmt.Printf("PASS %s\n", scenario.Name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", scenario.Name)
		if mismatch, ok := errp.Cause(err).(*verify.MismatchError); ok {
			fmt.Print(mismatch.Diff())
		} else {
			fmt.Printf("  %v\n", err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed > 0 {
		return errp.Newf("%d of %d scenarios failed", failed, len(loaded))
	}
	return nil
}
