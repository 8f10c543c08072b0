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
	"crypto/ed25519"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// SignatureScheme checks signatures returned by the app.
type SignatureScheme interface {
	Verify(publicKey, message, signature []byte) bool
}

// Ed25519 verifies ed25519 signatures over the message itself. This is what the Pocket app
// produces.
type Ed25519 struct{}

// Verify implements SignatureScheme.
func (Ed25519) Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(publicKey, message, signature)
}

// Secp256k1 verifies 64 byte r||s ECDSA signatures over the sha256 hash of the message. The public
// key can be compressed or uncompressed.
type Secp256k1 struct{}

// Verify implements SignatureScheme.
func (Secp256k1) Verify(publicKey, message, signature []byte) bool {
	if len(signature) != 64 {
		return false
	}
	pubKey, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	var r, s btcec.ModNScalar
	if r.SetByteSlice(signature[:32]) || s.SetByteSlice(signature[32:]) {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(chainhash.HashB(message), pubKey)
}

// SchemeByName returns "ed25519" or "secp256k1". An empty name means ed25519.
func SchemeByName(name string) (SignatureScheme, error) {
	switch name {
	case "", "ed25519":
		return Ed25519{}, nil
	case "secp256k1":
		return Secp256k1{}, nil
	}
	return nil, errp.Newf("unknown signature scheme: %s", name)
}
