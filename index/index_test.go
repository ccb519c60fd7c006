// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/index"
	"github.com/bitmark-inc/chainstore/object"
)

func TestTableStates(t *testing.T) {
	tbl := index.NewTable[string]()

	assert.Equal(t, cache.Unknown, tbl.Get("alice").State, "wrong initial state")

	assert.True(t, tbl.MarkPending("alice"), "cannot mark pending")
	assert.False(t, tbl.MarkPending("alice"), "marked pending twice")
	assert.Equal(t, cache.Pending, tbl.Get("alice").State, "wrong state")

	assert.True(t, tbl.Revert("alice"), "cannot revert")
	assert.Equal(t, cache.Unknown, tbl.Get("alice").State, "not reverted")

	tbl.Set("alice", "1.2.5")
	v, ok := tbl.Lookup("alice")
	assert.True(t, ok, "not present")
	assert.Equal(t, "1.2.5", v, "wrong value")
	assert.False(t, tbl.Revert("alice"), "reverted a present key")
	assert.False(t, tbl.MarkPending("alice"), "present key marked pending")

	tbl.MarkAbsent("bob")
	assert.Equal(t, cache.Absent, tbl.Get("bob").State, "not absent")
	_, ok = tbl.Lookup("bob")
	assert.False(t, ok, "absent key found")

	assert.Equal(t, 2, tbl.Len(), "wrong length")
	assert.Equal(t, []string{"alice"}, tbl.Keys(), "wrong keys")

	assert.True(t, tbl.Update("alice", func(s string) string { return s + "0" }), "update failed")
	v, _ = tbl.Lookup("alice")
	assert.Equal(t, "1.2.50", v, "not updated")
	assert.False(t, tbl.Update("bob", func(s string) string { return s }), "absent key updated")

	tbl.Clear()
	assert.Equal(t, 0, tbl.Len(), "not cleared")
}

func TestTournamentTransition(t *testing.T) {
	ts := index.NewTournaments()

	_, ok := ts.Get("1.2.5", "accepting_registrations")
	assert.False(t, ok, "untracked account found")

	_, created := ts.Track("1.2.5", "accepting_registrations")
	assert.True(t, created, "not created")
	_, created = ts.Track("1.2.5", "accepting_registrations")
	assert.False(t, created, "created twice")
	ts.Track("1.2.6", "accepting_registrations")
	ts.Track("1.2.6", "in_progress")
	ts.Track(index.AllAccounts, "accepting_registrations")

	// open tournament goes to everyone tracking the state
	ts.Transition("1.16.1", "", "accepting_registrations", object.NewSet())
	// whitelisted tournament only to 1.2.6 and the wildcard
	ts.Transition("1.16.2", "", "accepting_registrations", object.NewSet("1.2.6"))

	s, _ := ts.Get("1.2.5", "accepting_registrations")
	assert.Equal(t, []string{"1.16.1"}, s.Items(), "wrong 1.2.5 tournaments")
	s, _ = ts.Get("1.2.6", "accepting_registrations")
	assert.Equal(t, []string{"1.16.1", "1.16.2"}, s.Items(), "wrong 1.2.6 tournaments")
	s, _ = ts.Get(index.AllAccounts, "accepting_registrations")
	assert.Equal(t, []string{"1.16.1", "1.16.2"}, s.Items(), "wrong wildcard tournaments")

	ts.Transition("1.16.2", "accepting_registrations", "in_progress", object.NewSet("1.2.6"))
	s, _ = ts.Get("1.2.6", "accepting_registrations")
	assert.Equal(t, []string{"1.16.1"}, s.Items(), "not removed from prior state")
	s, _ = ts.Get(index.AllAccounts, "accepting_registrations")
	assert.Equal(t, []string{"1.16.1"}, s.Items(), "not removed from wildcard")
	s, _ = ts.Get("1.2.6", "in_progress")
	assert.Equal(t, []string{"1.16.2"}, s.Items(), "not added to new state")

	// same state is a no-op
	ts.Transition("1.16.1", "accepting_registrations", "accepting_registrations", object.NewSet())
	s, _ = ts.Get("1.2.5", "accepting_registrations")
	assert.Equal(t, []string{"1.16.1"}, s.Items(), "changed by no-op")

	ts.Clear()
	_, ok = ts.Get("1.2.5", "accepting_registrations")
	assert.False(t, ok, "not cleared")
}

func TestRegistrations(t *testing.T) {
	r := index.NewRegistrations()

	r.Track("1.2.5")
	assert.False(t, r.Register("1.16.3", object.NewSet("1.2.7")), "untracked player registered")
	assert.True(t, r.Register("1.16.3", object.NewSet("1.2.5", "1.2.7")), "not registered")
	assert.False(t, r.Register("1.16.3", object.NewSet("1.2.5")), "registered twice")

	s, ok := r.Get("1.2.5")
	assert.True(t, ok, "not tracked")
	assert.Equal(t, []string{"1.16.3"}, s.Items(), "wrong registrations")

	_, ok = r.Get("1.2.7")
	assert.False(t, ok, "untracked player found")

	assert.False(t, r.Replace("1.2.5", object.NewSet("1.16.3")), "equal set replaced")
	assert.True(t, r.Replace("1.2.5", object.NewSet("1.16.3", "1.16.4")), "not replaced")
}

func TestLastTournament(t *testing.T) {
	l := &index.LastTournament{}

	l.Observe("1.16.4")
	_, tracking := l.Get()
	assert.False(t, tracking, "tracking before begin")

	l.Begin()
	id, tracking := l.Get()
	assert.True(t, tracking, "not tracking")
	assert.Equal(t, "", id, "id before observe")

	l.Observe("1.16.9")
	l.Observe("1.16.10")
	l.Observe("1.16.2")
	l.Observe("bad")
	id, _ = l.Get()
	assert.Equal(t, "1.16.10", id, "numeric comparison failed")

	l.Observe("1.16.18446744073709551616")
	id, _ = l.Get()
	assert.Equal(t, "1.16.18446744073709551616", id, "large instance ignored")

	l.Begin()
	id, _ = l.Get()
	assert.Equal(t, "1.16.18446744073709551616", id, "begin lost the known id")

	l.Reset()
	_, tracking = l.Get()
	assert.False(t, tracking, "still tracking after reset")
}

func TestIndicesClear(t *testing.T) {
	i := index.New()
	i.AccountsByName.Set("alice", "1.2.5")
	i.AccountsByKey.Set("KEY", object.NewSet("1.2.5"))
	i.Registrations.Track("1.2.5")
	i.LastTournament.Begin()

	i.Clear()

	assert.Equal(t, 0, i.AccountsByName.Len(), "names not cleared")
	assert.Equal(t, 0, i.AccountsByKey.Len(), "keys not cleared")
	_, ok := i.Registrations.Get("1.2.5")
	assert.False(t, ok, "registrations not cleared")
	_, tracking := i.LastTournament.Get()
	assert.False(t, tracking, "last tournament not reset")
}
