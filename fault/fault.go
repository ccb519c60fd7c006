// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type TimeoutError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrAlreadySubscribed    = ExistsError("callback is already subscribed")
	ErrClockSync            = ProcessError("chain store sync error, please check your system clock")
	ErrInvalidAccountName   = InvalidError("invalid account name")
	ErrInvalidCount         = InvalidError("invalid count")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidObjectId      = InvalidError("argument is not an object id")
	ErrInvalidPayload       = InvalidError("invalid payload")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrInvalidSubscription  = InvalidError("invalid subscription kind")
	ErrMissingObjectId      = InvalidError("object has no id")
	ErrMissingParameters    = InvalidError("missing parameters")
	ErrNotConnected         = ProcessError("not connected")
	ErrNotFound             = NotFoundError("object not found")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrNotSubscribed        = NotFoundError("callback is not subscribed")
	ErrObjectIdRange        = InvalidError("object id part exceeds 64 bits")
	ErrRemoteCall           = ProcessError("remote call failed")
	ErrTimeout              = TimeoutError("timeout")
	ErrTransientFetch       = ProcessError("transient fetch failure")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e TimeoutError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrTimeout(e error) bool  { _, ok := e.(TimeoutError); return ok }
