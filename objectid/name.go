// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package objectid

import (
	"strings"
)

// account name limits
const (
	minimumNameLength = 1
	maximumNameLength = 63
)

// ValidAccountName - check an account name
//
// a name is one or more dot separated labels, each label starts with
// a letter, ends with a letter or digit and contains only lower case
// letters, digits and dashes; labels must be at least three
// characters unless allowShort is set
func ValidAccountName(name string, allowShort bool) bool {
	if len(name) < minimumNameLength || len(name) > maximumNameLength {
		return false
	}

	for _, label := range strings.Split(name, ".") {
		if !validLabel(label, allowShort) {
			return false
		}
	}
	return true
}

func validLabel(label string, allowShort bool) bool {
	if 0 == len(label) {
		return false
	}
	if !allowShort && len(label) < 3 {
		return false
	}

	first := label[0]
	if first < 'a' || first > 'z' {
		return false
	}

	last := label[len(label)-1]
	if !isLower(last) && !isDigit(last) {
		return false
	}

	for i := 1; i < len(label)-1; i += 1 {
		c := label[i]
		if !isLower(c) && !isDigit(c) && '-' != c {
			return false
		}
	}
	return true
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
