// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/background"
	"github.com/bitmark-inc/chainstore/chainstore"
	"github.com/bitmark-inc/chainstore/fault"
	"github.com/bitmark-inc/chainstore/remote"
	"github.com/bitmark-inc/chainstore/storage"
	"github.com/bitmark-inc/chainstore/subscription"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands only inspect the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile && 0 == len(arguments) {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start a profiling http server
	// this uses the default builtin HTTP handler
	if "" != theConfiguration.ProfileHTTP {
		go func() {
			log.Warnf("profile listener on: %s", theConfiguration.ProfileHTTP)
			err := http.ListenAndServe(theConfiguration.ProfileHTTP, nil)
			exitwithstatus.Message("profile error: %s", err)
		}()
	}

	log.Infof("node: %q", theConfiguration.Node.URL)
	log.Infof("database: %q", theConfiguration.Database.Name)

	// irreversible block storage
	log.Info("initialise storage")
	blocks, err := storage.Open(theConfiguration.Database.Name)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer blocks.Close()

	// node connection
	client, err := remote.NewHTTP(theConfiguration.remote())
	if nil != err {
		log.Criticalf("remote initialise error: %s", err)
		exitwithstatus.Message("remote initialise error: %s", err)
	}

	store, err := chainstore.New(theConfiguration.Store, client, blocks, nil)
	if nil != err {
		log.Criticalf("chain store initialise error: %s", err)
		exitwithstatus.Message("chain store initialise error: %s", err)
	}
	defer store.Close()

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processes := background.Processes{client}
	var watch *watchList
	if "" != theConfiguration.WatchList && 0 == len(arguments) {
		watch, err = newWatchList(theConfiguration.WatchList, store)
		if nil != err {
			log.Criticalf("watch list: %q  error: %s", theConfiguration.WatchList, err)
			exitwithstatus.Message("watch list: %q  error: %s", theConfiguration.WatchList, err)
		}
	}
	poller := background.Start(processes, nil)
	defer poller.Stop()

	// synchronise with the node before anything else
	go func() {
		sig := <-ch
		log.Infof("received signal: %v", sig)
		cancel()
	}()
	err = initialise(ctx, log, store, time.Duration(theConfiguration.Node.InitRetry)*time.Second)
	if nil != err {
		log.Criticalf("chain store sync error: %s", err)
		exitwithstatus.Message("chain store sync error: %s", err)
	}

	// these commands need the synced store
	if len(arguments) > 0 {
		if !processStoreCommand(log, store, arguments) {
			exitwithstatus.Message("%s: no such command: %q", program, arguments[0])
		}
		return
	}

	// updates missed while the node was unreachable are unrecoverable
	client.OnReconnect(func() {
		err := store.ResetCache(ctx)
		if nil != err {
			log.Errorf("reset after reconnect error: %s", err)
		}
	})

	observer := subscription.Func(func() {
		log.Trace("chain store changed")
	})
	err = store.Subscribe(observer)
	if nil != err {
		log.Criticalf("chain store observer error: %s", err)
		exitwithstatus.Message("chain store observer error: %s", err)
	}
	defer store.Unsubscribe(observer)

	var followers *background.T
	if nil != watch {
		followers = background.Start(background.Processes{watch}, nil)
		defer followers.Stop()
	}

	if "" != theConfiguration.StatusHTTP {
		server := &http.Server{
			Addr:    theConfiguration.StatusHTTP,
			Handler: statusHandler(logger.New("status"), store, watch),
		}
		go func() {
			log.Infof("status listener on: %s", theConfiguration.StatusHTTP)
			err := server.ListenAndServe()
			if http.ErrServerClosed != err {
				log.Errorf("status listener error: %s", err)
			}
		}()
		defer server.Close()
	}

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		go memstats(store)
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	<-ctx.Done()
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// run Init until it succeeds, a clock error is final
func initialise(ctx context.Context, log *logger.L, store *chainstore.Store, retry time.Duration) error {
	for {
		err := store.Init(ctx)
		if nil == err {
			return nil
		}
		if fault.ErrClockSync == err || nil != ctx.Err() {
			return err
		}
		log.Warnf("init error: %s  retry in: %s", err, retry)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}
