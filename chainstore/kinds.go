// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/objectid"
)

// SubscriptionKind - which explicit interest set an id belongs to
type SubscriptionKind int

// the interest sets
const (
	Accounts SubscriptionKind = iota
	Witnesses
	Committee

	subscriptionKinds = iota
)

func (k SubscriptionKind) String() string {
	switch k {
	case Accounts:
		return "accounts"
	case Witnesses:
		return "witnesses"
	case Committee:
		return "committee"
	default:
		return "invalid"
	}
}

func (k SubscriptionKind) valid() bool {
	return k >= 0 && k < subscriptionKinds
}

// SubscribeTo - declare interest in an object id
func (s *Store) SubscribeTo(kind SubscriptionKind, id string) error {
	if !kind.valid() {
		return fault.ErrInvalidSubscription
	}
	if !objectid.Valid(id) {
		return fault.ErrInvalidObjectId
	}
	s.Lock()
	s.subscribedTo[kind][id] = struct{}{}
	s.Unlock()
	return nil
}

// UnsubscribeFrom - drop interest in an id and forget its cached object
func (s *Store) UnsubscribeFrom(kind SubscriptionKind, id string) error {
	if !kind.valid() {
		return fault.ErrInvalidSubscription
	}
	if !objectid.Valid(id) {
		return fault.ErrInvalidObjectId
	}
	s.Lock()
	delete(s.subscribedTo[kind], id)
	s.Unlock()
	s.cache.Forget(id)
	return nil
}

// IsSubscribedTo - interest was declared in id
func (s *Store) IsSubscribedTo(kind SubscriptionKind, id string) bool {
	if !kind.valid() {
		return false
	}
	s.Lock()
	defer s.Unlock()
	_, ok := s.subscribedTo[kind][id]
	return ok
}

func (s *Store) clearSubscriptions() {
	s.Lock()
	for i := range s.subscribedTo {
		s.subscribedTo[i] = make(map[string]struct{})
	}
	s.Unlock()
}
