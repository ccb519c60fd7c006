// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/chainstore"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

func memstats(store *chainstore.Store) {

	log := logger.New("memory")

	for {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		a := m.Alloc / mega
		t := m.TotalAlloc / mega
		s := m.Sys / mega
		log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, s)

		families, err := store.Registry().Gather()
		if nil != err {
			log.Errorf("gather error: %s", err)
		}
		for _, f := range families {
			for _, metric := range f.GetMetric() {
				if g := metric.GetGauge(); nil != g {
					log.Infof("%s: %.0f", f.GetName(), g.GetValue())
				}
			}
		}

		time.Sleep(statsDelay)
	}
}
