// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package remote

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

// API - server side API name
type API string

// the APIs used
const (
	Database API = "database"
	History  API = "history"
)

// Notifier - receives update payloads in arrival order
type Notifier func(payload json.RawMessage)

// Client - the node connection
type Client interface {
	Exec(ctx context.Context, api API, method string, params []interface{}) (json.RawMessage, error)
	SubscribeToUpdates(ctx context.Context, notifier Notifier) error
}
