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

package pokt

import "fmt"

const (
	statusOK            = uint16(0x9000)
	statusWrongLength   = uint16(0x6700)
	statusRejected      = uint16(0x6985)
	statusWrongData     = uint16(0x6a80)
	statusInsNotSupport = uint16(0x6d00)
	statusClaNotSupport = uint16(0x6e00)
)

var statusDescriptions = map[uint16]string{
	statusWrongLength:   "wrong length",
	statusRejected:      "rejected by user",
	statusWrongData:     "invalid data",
	statusInsNotSupport: "instruction not supported",
	statusClaNotSupport: "class not supported",
}

// StatusError is returned when the app answers with a status word other than 0x9000.
// The value within is the status word.
type StatusError uint16

// Error implements error.
func (e StatusError) Error() string {
	if description, ok := statusDescriptions[uint16(e)]; ok {
		return fmt.Sprintf("status 0x%04x: %s", uint16(e), description)
	}
	return fmt.Sprintf("status 0x%04x", uint16(e))
}

// IsErrRejected returns true if the user declined on the device.
func (e StatusError) IsErrRejected() bool {
	return uint16(e) == statusRejected
}

// IsErrWrongLength returns true if the app rejected the size of the request.
func (e StatusError) IsErrWrongLength() bool {
	return uint16(e) == statusWrongLength
}
