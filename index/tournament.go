// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index

import (
	"sync"

	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
)

// AllAccounts - the account key that receives every tournament
const AllAccounts = ""

// Tournaments - account -> state -> tournament ids an account may join
type Tournaments struct {
	sync.Mutex

	buckets map[string]map[string]object.Set // account -> state -> ids
	byState map[string]map[string]struct{}   // state -> tracking accounts
	holders map[string]map[string]struct{}   // tournament -> accounts holding it
}

// NewTournaments - only AllAccounts is known, with no states
func NewTournaments() *Tournaments {
	t := &Tournaments{}
	t.Clear()
	return t
}

// Clear - forget all tracked accounts
func (t *Tournaments) Clear() {
	t.Lock()
	t.buckets = map[string]map[string]object.Set{
		AllAccounts: {},
	}
	t.byState = make(map[string]map[string]struct{})
	t.holders = make(map[string]map[string]struct{})
	t.Unlock()
}

// Get - ids for account in state, false if not yet tracked
func (t *Tournaments) Get(account string, state string) (object.Set, bool) {
	t.Lock()
	defer t.Unlock()
	states, ok := t.buckets[account]
	if !ok {
		return object.Set{}, false
	}
	s, ok := states[state]
	return s, ok
}

// Track - start tracking account/state, true if newly tracked
func (t *Tournaments) Track(account string, state string) (object.Set, bool) {
	t.Lock()
	defer t.Unlock()

	states, ok := t.buckets[account]
	if !ok {
		states = make(map[string]object.Set)
		t.buckets[account] = states
	}
	if s, ok := states[state]; ok {
		return s, false
	}
	states[state] = object.NewSet()

	accounts, ok := t.byState[state]
	if !ok {
		accounts = make(map[string]struct{})
		t.byState[state] = accounts
	}
	accounts[account] = struct{}{}
	return object.NewSet(), true
}

// Transition - move a tournament from prior to current state
//
// only the accounts already holding the tournament and the accounts
// tracking the new state are visited; an empty whitelist admits every
// account
func (t *Tournaments) Transition(tournamentId string, prior string, current string, whitelist object.Set) {
	if prior == current {
		return
	}

	t.Lock()
	defer t.Unlock()

	if holders, ok := t.holders[tournamentId]; ok {
		for account := range holders {
			if s, ok := t.buckets[account][prior]; ok {
				t.buckets[account][prior] = s.Remove(tournamentId)
			}
		}
		delete(t.holders, tournamentId)
	}

	accounts := t.byState[current]
	if 0 == len(accounts) {
		return
	}
	holders := make(map[string]struct{})
	for account := range accounts {
		if AllAccounts != account && 0 != whitelist.Len() && !whitelist.Contains(account) {
			continue
		}
		t.buckets[account][current] = t.buckets[account][current].Add(tournamentId)
		holders[account] = struct{}{}
	}
	if 0 != len(holders) {
		t.holders[tournamentId] = holders
	}
}

// Registrations - player account -> tournaments registered for
type Registrations struct {
	sync.Mutex
	players map[string]object.Set
}

// NewRegistrations - empty index
func NewRegistrations() *Registrations {
	return &Registrations{
		players: make(map[string]object.Set),
	}
}

// Get - tournaments of a tracked player
func (r *Registrations) Get(account string) (object.Set, bool) {
	r.Lock()
	defer r.Unlock()
	s, ok := r.players[account]
	return s, ok
}

// Track - start tracking a player, true if newly tracked
func (r *Registrations) Track(account string) (object.Set, bool) {
	r.Lock()
	defer r.Unlock()
	if s, ok := r.players[account]; ok {
		return s, false
	}
	r.players[account] = object.NewSet()
	return object.NewSet(), true
}

// Replace - set a tracked player's tournaments, true if changed
func (r *Registrations) Replace(account string, tournamentIds object.Set) bool {
	r.Lock()
	defer r.Unlock()
	if s, ok := r.players[account]; ok && object.Equal(s, tournamentIds) {
		return false
	}
	r.players[account] = tournamentIds
	return true
}

// Register - add a tournament to each tracked player, players
// cannot unregister so nothing is ever removed
func (r *Registrations) Register(tournamentId string, players object.Set) bool {
	r.Lock()
	defer r.Unlock()
	changed := false
	for _, account := range players.Items() {
		s, ok := r.players[account]
		if !ok || s.Contains(tournamentId) {
			continue
		}
		r.players[account] = s.Add(tournamentId)
		changed = true
	}
	return changed
}

// Clear - forget all players
func (r *Registrations) Clear() {
	r.Lock()
	r.players = make(map[string]object.Set)
	r.Unlock()
}

// LastTournament - highest tournament id observed once tracking began
type LastTournament struct {
	sync.Mutex
	tracking bool
	id       string
}

// Begin - start tracking, keeps any id already known
func (l *LastTournament) Begin() {
	l.Lock()
	if !l.tracking {
		l.tracking = true
		l.id = ""
	}
	l.Unlock()
}

// Observe - record a tournament id if it is the highest seen,
// ignored until Begin
func (l *LastTournament) Observe(tournamentId string) {
	if !objectid.Valid(tournamentId) {
		return
	}
	l.Lock()
	defer l.Unlock()
	if !l.tracking {
		return
	}
	if "" == l.id {
		l.id = tournamentId
		return
	}
	if c, _ := objectid.CompareInstances(tournamentId, l.id); c > 0 {
		l.id = tournamentId
	}
}

// Get - the highest id (empty if none exist) and whether tracking began
func (l *LastTournament) Get() (string, bool) {
	l.Lock()
	defer l.Unlock()
	return l.id, l.tracking
}

// Reset - stop tracking
func (l *LastTournament) Reset() {
	l.Lock()
	l.tracking = false
	l.id = ""
	l.Unlock()
}
