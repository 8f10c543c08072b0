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

// Package common contains definitions shared by the api packages.
package common

import "github.com/BitBoxSwiss/speculos-api-go/util/errp"

// Product enumerates the device variants the emulator can run.
type Product string

const (
	// ProductNanoS is the Ledger Nano S.
	ProductNanoS Product = "nanos"
	// ProductNanoSPlus is the Ledger Nano S Plus. Speculos' text recognition on this model drops
	// some letters.
	ProductNanoSPlus Product = "nanosp"
)

// ProductFromModel returns the product for a Speculos `--model` value.
func ProductFromModel(model string) (Product, error) {
	switch Product(model) {
	case ProductNanoS, ProductNanoSPlus:
		return Product(model), nil
	}
	return "", errp.Newf("unrecognized model: %s", model)
}
