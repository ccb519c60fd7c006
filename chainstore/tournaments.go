// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"context"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/object"
	"github.com/bitmark-inc/chainstore/objectid"
	"github.com/bitmark-inc/chainstore/remote"
)

// GetTournamentIdsInState - tournaments in a state that an account may
// join, use index.AllAccounts for every tournament
//
// the first call for an account and state returns an empty set and
// queries the node, the set is then kept current by updates
func (s *Store) GetTournamentIdsInState(accountId string, state string) object.Set {
	ids, created := s.indices.Tournaments.Track(accountId, state)
	if !created {
		return ids
	}

	limit := s.configuration.TournamentQueryLimit
	s.async(func(ctx context.Context, generation uint64) {
		raw, err := s.call(ctx, remote.Database, "get_tournaments_in_state", []interface{}{state, limit})
		if nil != err {
			s.log.Errorf("tournaments in state: %s  error: %s", state, err)
			return
		}
		tournaments, err := parseList(raw)
		if nil != err {
			s.log.Errorf("tournaments in state: %s  error: %s", state, err)
			return
		}

		s.apply(generation, func() {
			before, _ := s.indices.Tournaments.Get(accountId, state)
			for _, item := range tournaments {
				t, ok := item.(object.Map)
				if !ok || "" == t.Id() {
					continue
				}
				// a cached tournament would not show a state change
				if !before.Contains(t.Id()) {
					s.cache.Forget(t.Id())
				}
				s.updateObject(t, false)
			}
			after, _ := s.indices.Tournaments.Get(accountId, state)
			if !object.Equal(before, after) {
				s.hub.Notify()
			}
		})
	})
	return ids
}

// GetRegisteredTournamentIds - tournaments an account has registered for
func (s *Store) GetRegisteredTournamentIds(accountId string) object.Set {
	ids, created := s.indices.Registrations.Track(accountId)
	if !created {
		return ids
	}

	limit := s.configuration.TournamentQueryLimit
	s.async(func(ctx context.Context, generation uint64) {
		raw, err := s.call(ctx, remote.Database, "get_registered_tournaments", []interface{}{accountId, limit})
		if nil != err {
			s.log.Errorf("registered tournaments: %s  error: %s", accountId, err)
			return
		}
		list, err := parseList(raw)
		if nil != err {
			s.log.Errorf("registered tournaments: %s  error: %s", accountId, err)
			return
		}
		s.apply(generation, func() {
			if s.indices.Registrations.Replace(accountId, object.ToSet(list)) {
				s.hub.Notify()
			}
		})
	})
	return ids
}

// GetTournaments - a page of tournaments, newest first
func (s *Store) GetTournaments(ctx context.Context, lastTournamentId string, limit int, startTournamentId string) ([]object.Map, error) {
	s.Lock()
	generation := s.generation
	s.Unlock()

	raw, err := s.call(ctx, remote.Database, "get_tournaments", []interface{}{lastTournamentId, limit, startTournamentId})
	if nil != err {
		return nil, err
	}
	list, err := parseList(raw)
	if nil != err {
		return nil, err
	}

	result := make([]object.Map, 0, len(list))
	s.apply(generation, func() {
		s.indices.LastTournament.Begin()
		for _, item := range list {
			t, ok := item.(object.Map)
			if !ok || "" == t.Id() {
				continue
			}
			e := s.cache.Get(t.Id())
			if cache.Present != e.State {
				t, _ = s.updateObject(t, false)
			} else {
				t = e.Value
				s.indices.LastTournament.Observe(t.Id())
			}
			result = append([]object.Map{t}, result...)
		}
	})
	return result, nil
}

// GetLastTournamentId - the highest tournament id, "" if there are none
func (s *Store) GetLastTournamentId(ctx context.Context) (string, error) {
	if id, tracking := s.indices.LastTournament.Get(); tracking {
		return id, nil
	}

	s.Lock()
	generation := s.generation
	s.Unlock()

	first := objectid.TournamentStart.String()
	raw, err := s.call(ctx, remote.Database, "get_tournaments", []interface{}{first, 1, first})
	if nil != err {
		return "", err
	}
	list, err := parseList(raw)
	if nil != err {
		return "", err
	}

	s.apply(generation, func() {
		s.indices.LastTournament.Begin()
		for _, item := range list {
			if t, ok := item.(object.Map); ok {
				s.updateObject(t, false)
			}
		}
	})
	id, _ := s.indices.LastTournament.Get()
	return id, nil
}
