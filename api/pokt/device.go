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

// Package pokt is the host side of the Pocket Network wallet app: public key retrieval and
// transaction signing.
package pokt

import (
	"encoding/binary"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
	"github.com/BitBoxSwiss/speculos-api-go/util/semver"
)

const (
	cla = 0x80

	insGetVersion   = 0x00
	insGetPublicKey = 0x02
	insSign         = 0x03

	// P1 values of the sign instruction.
	p1SignInit = 0x00
	p1SignAdd  = 0x01
	p1SignLast = 0x02

	// maxChunkLen is the largest payload chunk sent in one APDU.
	maxChunkLen = 230

	publicKeyLen = 32
	signatureLen = 64
)

// Communication contains functions needed to communicate with the device.
type Communication interface {
	// Query sends an APDU and returns the response data followed by the status word.
	Query([]byte) ([]byte, error)
	Close()
}

// Device provides the commands of the app.
type Device struct {
	communication Communication
}

// NewDevice creates a new instance of Device.
func NewDevice(communication Communication) *Device {
	return &Device{communication: communication}
}

// Close closes the communication with the device.
func (device *Device) Close() {
	device.communication.Close()
}

func (device *Device) query(ins, p1 byte, data []byte) ([]byte, error) {
	if len(data) > 0xff {
		return nil, errp.Newf("APDU data too long: %d bytes", len(data))
	}
	apdu := append([]byte{cla, ins, p1, 0x00, byte(len(data))}, data...)
	response, err := device.communication.Query(apdu)
	if err != nil {
		return nil, err
	}
	if len(response) < 2 {
		return nil, errp.New("response too short")
	}
	payload, status := response[:len(response)-2], binary.BigEndian.Uint16(response[len(response)-2:])
	if status != statusOK {
		return nil, StatusError(status)
	}
	return payload, nil
}

// Version returns the version of the app.
func (device *Device) Version() (*semver.SemVer, error) {
	response, err := device.query(insGetVersion, 0x00, nil)
	if err != nil {
		return nil, err
	}
	if len(response) < 3 {
		return nil, errp.New("unexpected version response")
	}
	return semver.NewSemVer(uint16(response[0]), uint16(response[1]), uint16(response[2])), nil
}

// PublicKey returns the ed25519 public key at keypath.
func (device *Device) PublicKey(keypath Keypath) ([]byte, error) {
	response, err := device.query(insGetPublicKey, 0x00, keypath.encode())
	if err != nil {
		return nil, err
	}
	if len(response) < 1 || int(response[0]) != publicKeyLen || len(response) < 1+publicKeyLen {
		return nil, errp.New("unexpected public key response")
	}
	return response[1 : 1+publicKeyLen], nil
}

// SignTransaction asks the user to confirm the transaction and returns the ed25519 signature of
// the payload. The keypath is sent first, then the payload in chunks.
func (device *Device) SignTransaction(keypath Keypath, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errp.New("empty transaction")
	}
	if _, err := device.query(insSign, p1SignInit, keypath.encode()); err != nil {
		return nil, err
	}
	var response []byte
	for len(payload) > 0 {
		chunk := payload
		if len(chunk) > maxChunkLen {
			chunk = chunk[:maxChunkLen]
		}
		payload = payload[len(chunk):]
		p1 := byte(p1SignAdd)
		if len(payload) == 0 {
			p1 = p1SignLast
		}
		var err error
		response, err = device.query(insSign, p1, chunk)
		if err != nil {
			return nil, err
		}
	}
	if len(response) != signatureLen {
		return nil, errp.Newf("unexpected signature length: %d", len(response))
	}
	return response, nil
}
