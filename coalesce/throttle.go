// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coalesce

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultThrottle - window for repeated full account fetches
const DefaultThrottle = 5 * time.Second

// AccountThrottle - records fetch attempts and refuses a repeat
// inside the window
type AccountThrottle struct {
	attempts *gocache.Cache
}

// NewAccountThrottle - create a throttle, zero selects the default window
func NewAccountThrottle(window time.Duration) *AccountThrottle {
	if window <= 0 {
		window = DefaultThrottle
	}
	return &AccountThrottle{
		attempts: gocache.New(window, 2*window),
	}
}

// Attempt - true if a fetch for key may be issued now, the attempt
// is recorded
func (a *AccountThrottle) Attempt(key string) bool {
	err := a.attempts.Add(key, time.Now(), gocache.DefaultExpiration)
	return nil == err
}

// LastAttempt - time of the recorded attempt still inside the window
func (a *AccountThrottle) LastAttempt(key string) (time.Time, bool) {
	v, found := a.attempts.Get(key)
	if !found {
		return time.Time{}, false
	}
	return v.(time.Time), true
}

// Forget - allow an immediate retry
func (a *AccountThrottle) Forget(key string) {
	a.attempts.Delete(key)
}

// Reset - forget every attempt
func (a *AccountThrottle) Reset() {
	a.attempts.Flush()
}
