// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/chainstore/chainstore"
	"github.com/bitmark-inc/chainstore/configuration"
	"github.com/bitmark-inc/chainstore/remote"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "blocks.leveldb"

	defaultPollInterval = 1000  // ms
	defaultTimeout      = 30000 // ms
	defaultInitRetry    = 10    // s

	defaultLogDirectory = "log"
	defaultLogFile      = "chainstored.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// NodeType - the Graphene node to follow
type NodeType struct {
	URL          string `gluamapper:"url" json:"url"`
	Username     string `gluamapper:"username" json:"username"`
	Password     string `gluamapper:"password" json:"password"`
	PollInterval int    `gluamapper:"poll_interval" json:"poll_interval"` // ms
	Timeout      int    `gluamapper:"timeout" json:"timeout"`             // ms
	InitRetry    int    `gluamapper:"init_retry" json:"init_retry"`       // s
}

// DatabaseType - where irreversible blocks are kept
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - everything read from the configuration file
type Configuration struct {
	DataDirectory string                   `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                   `gluamapper:"pidfile" json:"pidfile"`
	Node          NodeType                 `gluamapper:"node" json:"node"`
	Database      DatabaseType             `gluamapper:"database" json:"database"`
	Store         chainstore.Configuration `gluamapper:"store" json:"store"`
	WatchList     string                   `gluamapper:"watch_list" json:"watch_list"`
	StatusHTTP    string                   `gluamapper:"status_http" json:"status_http"`
	ProfileHTTP   string                   `gluamapper:"profile_http" json:"profile_http"`
	Logging       logger.Configuration     `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Node: NodeType{
			PollInterval: defaultPollInterval,
			Timeout:      defaultTimeout,
			InitRetry:    defaultInitRetry,
		},

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if "" == options.Node.URL {
		return nil, fmt.Errorf("node url is required")
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	if "" != options.PidFile {
		mustBeAbsolute = append(mustBeAbsolute, &options.PidFile)
	}
	if "" != options.WatchList {
		mustBeAbsolute = append(mustBeAbsolute, &options.WatchList)
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(options.DataDirectory, *f)
	}

	// fail if any of these are not simple file names i.e. must not contain path seperator
	// then add the correct directory prefix, file item is first and corresponding directory is second
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, &options.Logging.Directory},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			*f[0] = ensureAbsolute(*f[1], *f[0])
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{&options.Logging.Directory, &options.Database.Directory} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	return options, nil
}

// the node access part of the configuration
func (c *Configuration) remote() remote.Configuration {
	return remote.Configuration{
		URL:          c.Node.URL,
		Username:     c.Node.Username,
		Password:     c.Node.Password,
		PollInterval: time.Duration(c.Node.PollInterval) * time.Millisecond,
		Timeout:      time.Duration(c.Node.Timeout) * time.Millisecond,
	}
}

// return an absolute path
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
