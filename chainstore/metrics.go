// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "chainstore"

// each store registers on its own registry so several stores can
// coexist in one process
type metrics struct {
	registry      *prometheus.Registry
	calls         *prometheus.CounterVec
	callErrors    *prometheus.CounterVec
	updates       prometheus.Counter
	discarded     *prometheus.CounterVec
	removals      prometheus.Counter
	notifications prometheus.Counter
}

func newMetrics(s *Store) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "remote_calls_total",
			Help:      "Remote API calls issued, by method.",
		}, []string{"method"}),
		callErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "remote_errors_total",
			Help:      "Remote API calls that failed, by method.",
		}, []string{"method"}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "updates_total",
			Help:      "Objects merged into the cache.",
		}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "discarded_total",
			Help:      "Objects dropped by namespace filtering.",
		}, []string{"namespace"}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "removals_total",
			Help:      "Objects removed by push notification.",
		}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Debounced observer fan-outs.",
		}),
	}

	objects := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "cached_objects",
		Help:      "Object ids in any state other than unknown.",
	}, func() float64 {
		return float64(s.cache.Len())
	})
	recentOperations := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "recent_operations",
		Help:      "Operations held in the recent operations ring.",
	}, func() float64 {
		return float64(len(s.scanner.Operations()))
	})

	m.registry.MustRegister(
		m.calls,
		m.callErrors,
		m.updates,
		m.discarded,
		m.removals,
		m.notifications,
		objects,
		recentOperations,
	)
	return m
}
