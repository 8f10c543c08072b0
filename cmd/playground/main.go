// Copyright 2018-2019 Shift Cryptosecurity AG
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

// Package main is a playground for devs to interact with a running emulator.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/BitBoxSwiss/speculos-api-go/api/pokt"
	"github.com/BitBoxSwiss/speculos-api-go/api/speculos"
	"github.com/BitBoxSwiss/speculos-api-go/api/verify"
	"github.com/davecgh/go-spew/spew"
)

func errpanic(err error) {
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func main() {
	ctx := context.Background()
	client := speculos.NewClient(speculos.DefaultURL, nil)
	errpanic(client.ClearEvents(ctx))

	device := pokt.NewDevice(client.APDU(ctx))
	defer device.Close()

	version, err := device.Version()
	errpanic(err)
	fmt.Println("App version:", version)

	keypath, err := pokt.ParseKeypath("m/44'/635'/0'/0'/0'")
	errpanic(err)
	publicKey, err := device.PublicKey(keypath)
	errpanic(err)
	fmt.Printf("Public key: %x\n", publicKey)
	fmt.Println("Address:", pokt.AddressFromPublicKey(publicKey))

	// Walk to the next screen and back, then show what was drawn.
	errpanic(client.PressButton(ctx, speculos.SelectRight))
	errpanic(client.PressButton(ctx, speculos.SelectLeft))
	events, err := client.Events(ctx)
	errpanic(err)
	spew.Dump(events)

	config := verify.DefaultConfig()
	for _, line := range config.Layout.Aggregate(events).Lines() {
		fmt.Println(line)
	}
}
