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

// Package mocks contains the mock implementations to be used in testing.
package mocks

// Communication is a mock implementation of pokt.Communication.
type Communication struct {
	MockQuery func([]byte) ([]byte, error)
	MockClose func()
}

// Query implements pokt.Communication.
func (communication *Communication) Query(msg []byte) ([]byte, error) {
	return communication.MockQuery(msg)
}

// Close implements pokt.Communication.
func (communication *Communication) Close() {
	if communication.MockClose != nil {
		communication.MockClose()
	}
}

// Logger is a logger that discards everything.
type Logger struct{}

// Error implements verify.Logger.
func (logger *Logger) Error(msg string, err error) {}

// Info implements verify.Logger.
func (logger *Logger) Info(msg string) {}

// Debug implements verify.Logger.
func (logger *Logger) Debug(msg string) {}
