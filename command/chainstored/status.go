// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/http"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/chainstore/chainstore"
	"github.com/bitmark-inc/chainstore/chaintime"
)

// StatusReply - body of GET /status
type StatusReply struct {
	Subscribed       bool          `json:"subscribed"`
	HeadBlockDate    string        `json:"head_block_date"`
	Progress         float64       `json:"progress"`
	ChainTimeOffset  string        `json:"chain_time_offset"`
	RecentBlocks     []RecentBlock `json:"recent_blocks"`
	RecentOperations int           `json:"recent_operations"`
	WatchList        []string      `json:"watch_list,omitempty"`
}

// RecentBlock - one entry of StatusReply.RecentBlocks
type RecentBlock struct {
	Number    uint64 `json:"number"`
	Timestamp string `json:"timestamp"`
	Witness   string `json:"witness"`
}

// the status and metrics listener
func statusHandler(log *logger.L, store *chainstore.Store, watch *watchList) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(store.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if http.MethodGet != r.Method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		reply := StatusReply{
			Subscribed:      store.Subscribed(),
			ChainTimeOffset: store.GetEstimatedChainTimeOffset().String(),
			RecentBlocks:    []RecentBlock{},
		}
		if head, err := store.GetHeadBlockDate(); nil == err {
			reply.HeadBlockDate = chaintime.FormatTime(head)
		}
		if p, err := store.Progress(); nil == err {
			reply.Progress = p
		}
		for _, b := range store.GetRecentBlocks() {
			reply.RecentBlocks = append(reply.RecentBlocks, RecentBlock{
				Number:    b.Number,
				Timestamp: chaintime.FormatTime(b.Timestamp),
				Witness:   b.WitnessAccountName,
			})
		}
		reply.RecentOperations = len(store.GetRecentOperations())
		if nil != watch {
			reply.WatchList = watch.Entries()
		}

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(reply)
		if nil != err {
			log.Errorf("status: encode error: %s", err)
		}
	})
	return mux
}
