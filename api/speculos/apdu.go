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

package speculos

import (
	"context"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
)

type apduMessage struct {
	Data string `json:"data"`
}

// APDUTransport exchanges APDUs through POST /apdu. Responses include the status word.
type APDUTransport struct {
	client *Client
	// ctx bounds every exchange of this session.
	ctx   context.Context
	mutex sync.Mutex
}

// APDU opens an APDU session bound to ctx.
func (client *Client) APDU(ctx context.Context) *APDUTransport {
	return &APDUTransport{client: client, ctx: ctx}
}

// Query sends an APDU and waits for the response. Blocking.
func (transport *APDUTransport) Query(apdu []byte) ([]byte, error) {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	var response apduMessage
	err := transport.client.do(
		transport.ctx, http.MethodPost, "/apdu",
		apduMessage{Data: hex.EncodeToString(apdu)}, &response)
	if err != nil {
		return nil, err
	}
	decoded, err := hex.DecodeString(response.Data)
	if err != nil {
		return nil, errp.WithMessage(errp.WithStack(err), "invalid APDU response")
	}
	return decoded, nil
}

// Close implements the transport interface. HTTP exchanges are stateless, so there is nothing to
// release.
func (transport *APDUTransport) Close() {}
