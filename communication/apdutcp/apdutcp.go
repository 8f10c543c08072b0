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

// Package apdutcp implements the length-prefixed APDU framing of the emulator's raw TCP port.
package apdutcp

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
)

// DefaultAddress is the default APDU port of Speculos.
const DefaultAddress = "127.0.0.1:9999"

// maxFrameLen bounds the length prefix of a response.
const maxFrameLen = 0xffff

// statusWordLen is the number of bytes following the data of a response.
const statusWordLen = 2

// Logger receives errors that cannot be returned.
type Logger interface {
	Error(msg string, err error)
}

// Communication exchanges APDUs over a stream. Requests are prefixed by their length as a 4 byte
// big endian integer. Responses are prefixed by the length of their data, and the data is
// followed by the 2 byte status word.
type Communication struct {
	device io.ReadWriteCloser
	mutex  sync.Mutex
	log    Logger
}

// NewCommunication creates a new Communication. log receives the error of Close and can be nil.
func NewCommunication(device io.ReadWriteCloser, log Logger) *Communication {
	return &Communication{
		device: device,
		mutex:  sync.Mutex{},
		log:    log,
	}
}

// Dial connects to the APDU port at address.
func Dial(address string, log Logger) (*Communication, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, errp.WithMessagef(errp.WithStack(err), "could not connect to %s", address)
	}
	return NewCommunication(conn, log), nil
}

// SendFrame sends one length-prefixed APDU.
func (communication *Communication) SendFrame(msg []byte) error {
	communication.mutex.Lock()
	defer communication.mutex.Unlock()
	return communication.sendFrame(msg)
}

func encodeFrame(msg []byte) []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, uint32(len(msg)))
	buf.Write(msg)
	return buf.Bytes()
}

func (communication *Communication) sendFrame(msg []byte) error {
	if len(msg) > maxFrameLen {
		return errp.Newf("data size over %d bytes", maxFrameLen)
	}
	_, err := communication.device.Write(encodeFrame(msg))
	return errp.WithMessage(errp.WithStack(err), "failed to send message")
}

// ReadFrame reads one response, returning its data followed by the status word.
func (communication *Communication) ReadFrame() ([]byte, error) {
	communication.mutex.Lock()
	defer communication.mutex.Unlock()
	return decodeFrame(communication.device)
}

func decodeFrame(reader io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
		return nil, errp.WithMessage(errp.WithStack(err), "failed to read length")
	}
	if length > maxFrameLen {
		return nil, errp.Newf("frame too long: %d", length)
	}
	data := make([]byte, int(length)+statusWordLen)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, errp.WithMessage(errp.WithStack(err), "failed to read response")
	}
	return data, nil
}

// Close closes the underlying connection. Errors are logged, not raised.
func (communication *Communication) Close() {
	if err := communication.device.Close(); err != nil && communication.log != nil {
		communication.log.Error("failed to close the APDU connection", errp.WithStack(err))
	}
}

// Query sends a request and waits for the response. Blocking.
func (communication *Communication) Query(request []byte) ([]byte, error) {
	communication.mutex.Lock()
	defer communication.mutex.Unlock()
	if err := communication.sendFrame(request); err != nil {
		return nil, err
	}
	return decodeFrame(communication.device)
}
