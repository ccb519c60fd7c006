// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/chainstore/cache"
	"github.com/bitmark-inc/chainstore/chainstore"
	"github.com/bitmark-inc/chainstore/objectid"
)

// the part of the store the watch list drives
type accountStore interface {
	SubscribeTo(kind chainstore.SubscriptionKind, id string) error
	UnsubscribeFrom(kind chainstore.SubscriptionKind, id string) error
	GetAccount(nameOrId string) (cache.Entry, error)
}

// watchList - keeps the store subscribed to the accounts listed in a
// file, one name or id per line, reloaded when the file changes
type watchList struct {
	sync.Mutex

	log      *logger.L
	fileName string
	store    accountStore
	watcher  *fsnotify.Watcher
	current  map[string]struct{}
}

func newWatchList(fileName string, store accountStore) (*watchList, error) {
	log := logger.New("watch-list")

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	// the directory is watched so that replacing the file is seen
	err = watcher.Add(filepath.Dir(fileName))
	if nil != err {
		watcher.Close()
		return nil, err
	}

	return &watchList{
		log:      log,
		fileName: fileName,
		store:    store,
		watcher:  watcher,
		current:  make(map[string]struct{}),
	}, nil
}

// Run - background process
func (w *watchList) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

	w.reload()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Base(event.Name) != filepath.Base(w.fileName) {
				continue
			}
			log.Debugf("file event: %v", event)
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				log.Warnf("watch list: %s removed, keeping: %d accounts", w.fileName, len(w.Entries()))
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	w.watcher.Close()
	log.Info("shutting down…")
	log.Flush()
}

func (w *watchList) reload() {
	entries, err := readWatchList(w.fileName)
	if nil != err {
		w.log.Errorf("read: %s  error: %s", w.fileName, err)
		return
	}
	added, removed := w.apply(entries)
	w.log.Infof("watch list: %d accounts  added: %d  removed: %d", len(entries), added, removed)
}

// bring the subscriptions in line with entries
func (w *watchList) apply(entries []string) (added int, removed int) {
	w.Lock()
	defer w.Unlock()

	next := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		next[entry] = struct{}{}
		if _, ok := w.current[entry]; ok {
			continue
		}

		if objectid.Valid(entry) {
			err := w.store.SubscribeTo(chainstore.Accounts, entry)
			if nil != err {
				w.log.Warnf("subscribe: %s  error: %s", entry, err)
				continue
			}
		}
		_, err := w.store.GetAccount(entry)
		if nil != err {
			w.log.Warnf("account: %q  error: %s", entry, err)
			continue
		}
		added += 1
	}

	for entry := range w.current {
		if _, ok := next[entry]; ok {
			continue
		}
		removed += 1
		if objectid.Valid(entry) {
			w.store.UnsubscribeFrom(chainstore.Accounts, entry)
		}
	}

	w.current = next
	return added, removed
}

// Entries - current accounts, sorted
func (w *watchList) Entries() []string {
	w.Lock()
	defer w.Unlock()

	entries := make([]string, 0, len(w.current))
	for entry := range w.current {
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	return entries
}

// one entry per line, blank lines and # comments are skipped
func readWatchList(fileName string) ([]string, error) {
	f, err := os.Open(fileName)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	entries := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if "" != line {
			entries = append(entries, line)
		}
	}
	return entries, scanner.Err()
}
