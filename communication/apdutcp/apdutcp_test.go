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

package apdutcp_test

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"net"
	"testing"
	"testing/quick"

	"github.com/BitBoxSwiss/speculos-api-go/communication/apdutcp"
	"github.com/stretchr/testify/require"
)

func mustDecodeHex(str string) []byte {
	decoded, err := hex.DecodeString(str)
	if err != nil {
		panic(err)
	}
	return decoded
}

type deviceMock struct {
	io.Writer
	io.Reader
	closeErr error
}

func (device *deviceMock) Close() error {
	return device.closeErr
}

type loggerMock struct {
	errs []error
}

func (logger *loggerMock) Error(msg string, err error) {
	logger.errs = append(logger.errs, err)
}

func encodeResponse(data []byte, statusWord uint16) []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
	_ = binary.Write(buf, binary.BigEndian, statusWord)
	return buf.Bytes()
}

// TestReadWrite checks that any request is framed with its length, and any response is read back
// with its status word.
func TestReadWrite(t *testing.T) {
	f := func(request, response []byte, statusWord uint16, suffix []byte) bool {
		writer := new(bytes.Buffer)
		reader := new(bytes.Buffer)
		reader.Write(encodeResponse(response, statusWord))
		// Data after the frame is left for the next read.
		reader.Write(suffix)
		read, err := apdutcp.NewCommunication(
			&deviceMock{Writer: writer, Reader: reader},
			nil,
		).Query(request)
		if err != nil {
			return false
		}
		written := writer.Bytes()
		if binary.BigEndian.Uint32(written[:4]) != uint32(len(request)) ||
			!bytes.Equal(written[4:], request) {
			return false
		}
		expected := append(append([]byte{}, response...), byte(statusWord>>8), byte(statusWord))
		return bytes.Equal(expected, read) && bytes.Equal(suffix, reader.Bytes())
	}
	require.NoError(t, quick.Check(f, nil))
}

var tests = []struct {
	decoded string
	encoded string
}{
	{"80020000", "0000000480020000"},
	{"", "00000000"},
	{"e00100000d038000002c8000027b00000000", "00000012e00100000d038000002c8000027b00000000"},
}

func TestWrite(t *testing.T) {
	for _, test := range tests {
		test := test
		t.Run("", func(t *testing.T) {
			buf := new(bytes.Buffer)
			err := apdutcp.NewCommunication(
				&deviceMock{Writer: buf},
				nil,
			).SendFrame(mustDecodeHex(test.decoded))
			require.NoError(t, err)
			require.Equal(t, test.encoded, hex.EncodeToString(buf.Bytes()))
		})
	}
}

func TestRead(t *testing.T) {
	read, err := apdutcp.NewCommunication(
		&deviceMock{Reader: bytes.NewReader(mustDecodeHex("00000002aabb9000"))},
		nil,
	).ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "aabb9000", hex.EncodeToString(read))

	// Status word only.
	read, err = apdutcp.NewCommunication(
		&deviceMock{Reader: bytes.NewReader(mustDecodeHex("000000006985"))},
		nil,
	).ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "6985", hex.EncodeToString(read))

	// Truncated.
	_, err = apdutcp.NewCommunication(
		&deviceMock{Reader: bytes.NewReader(mustDecodeHex("00000004aabb9000"))},
		nil,
	).ReadFrame()
	require.Error(t, err)

	// Too long.
	_, err = apdutcp.NewCommunication(
		&deviceMock{Reader: bytes.NewReader(mustDecodeHex("ffffffff"))},
		nil,
	).ReadFrame()
	require.Error(t, err)
}

func TestDial(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	done := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		var length uint32
		if err := binary.Read(conn, binary.BigEndian, &length); err != nil {
			done <- err
			return
		}
		request := make([]byte, length)
		if _, err := io.ReadFull(conn, request); err != nil {
			done <- err
			return
		}
		_, err = conn.Write(encodeResponse(request, 0x9000))
		done <- err
	}()

	communication, err := apdutcp.Dial(listener.Addr().String(), nil)
	require.NoError(t, err)
	defer communication.Close()
	response, err := communication.Query([]byte{0x80, 0x02})
	require.NoError(t, err)
	require.Equal(t, []byte{0x80, 0x02, 0x90, 0x00}, response)
	require.NoError(t, <-done)
}

func TestClose(t *testing.T) {
	logger := &loggerMock{}
	apdutcp.NewCommunication(&deviceMock{}, logger).Close()
	require.Empty(t, logger.errs)

	// Closing a connection the peer already dropped does not panic.
	closeErr := errors.New("use of closed network connection")
	apdutcp.NewCommunication(&deviceMock{closeErr: closeErr}, logger).Close()
	require.Len(t, logger.errs, 1)
	require.ErrorIs(t, logger.errs[0], closeErr)

	require.NotPanics(t, func() {
		apdutcp.NewCommunication(&deviceMock{closeErr: closeErr}, nil).Close()
	})
}
