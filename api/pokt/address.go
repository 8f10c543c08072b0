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

package pokt

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// addressLen is the number of bytes of the public key hash forming an address.
const addressLen = 20

// AddressFromPublicKey returns the account address shown on the device: the hex encoded first 20
// bytes of the sha256 hash of the public key.
func AddressFromPublicKey(publicKey []byte) string {
	return hex.EncodeToString(chainhash.HashB(publicKey)[:addressLen])
}
