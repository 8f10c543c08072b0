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
	"strconv"
	"strings"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// maxKeypathLen is the deepest keypath the app accepts.
const maxKeypathLen = 10

// Keypath is a BIP32 derivation path.
type Keypath []uint32

// ParseKeypath parses paths like "44'/635'/0/0" or "m/44h/635h/0". Hardened elements are marked
// with ' or h.
func ParseKeypath(path string) (Keypath, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "m/")
	if path == "" {
		return nil, errp.New("empty keypath")
	}
	elements := strings.Split(path, "/")
	if len(elements) > maxKeypathLen {
		return nil, errp.Newf("keypath too long: %d elements", len(elements))
	}
	keypath := make(Keypath, len(elements))
	for i, element := range elements {
		hardened := strings.HasSuffix(element, "'") || strings.HasSuffix(element, "h")
		if hardened {
			element = element[:len(element)-1]
		}
		value, err := strconv.ParseUint(element, 10, 31)
		if err != nil {
			return nil, errp.Newf("invalid keypath element %q in %q", elements[i], path)
		}
		keypath[i] = uint32(value)
		if hardened {
			keypath[i] += hdkeychain.HardenedKeyStart
		}
	}
	return keypath, nil
}

// String formats the keypath with ' for hardened elements.
func (keypath Keypath) String() string {
	elements := make([]string, len(keypath))
	for i, element := range keypath {
		if element >= hdkeychain.HardenedKeyStart {
			elements[i] = strconv.FormatUint(uint64(element-hdkeychain.HardenedKeyStart), 10) + "'"
		} else {
			elements[i] = strconv.FormatUint(uint64(element), 10)
		}
	}
	return strings.Join(elements, "/")
}

// encode serializes the keypath as the app expects: the number of elements in one byte, followed
// by each element as a 4 byte big endian integer.
func (keypath Keypath) encode() []byte {
	encoded := make([]byte, 1, 1+4*len(keypath))
	encoded[0] = byte(len(keypath))
	for _, element := range keypath {
		encoded = append(encoded, byte(element>>24), byte(element>>16), byte(element>>8), byte(element))
	}
	return encoded
}
