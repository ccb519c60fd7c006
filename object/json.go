// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/chainstore/fault"
)

// Parse - decode JSON into a value
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	err := dec.Decode(&raw)
	if nil != err {
		return nil, err
	}
	return FromInterface(raw)
}

// ParseMap - decode a JSON object
func ParseMap(data []byte) (Map, error) {
	v, err := Parse(data)
	if nil != err {
		return Map{}, err
	}
	m, ok := v.(Map)
	if !ok {
		return Map{}, fault.ErrInvalidPayload
	}
	return m, nil
}

// FromInterface - convert the output of encoding/json (with UseNumber)
func FromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Number(json.Number(fmt.Sprintf("%v", t))), nil
	case string:
		return String(t), nil
	case []interface{}:
		list := make(List, len(t))
		for i, e := range t {
			v, err := FromInterface(e)
			if nil != err {
				return nil, err
			}
			list[i] = v
		}
		return list, nil
	case map[string]interface{}:
		fields := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromInterface(e)
			if nil != err {
				return nil, err
			}
			fields[k] = v
		}
		return NewMap(fields), nil
	}
	return nil, fault.ErrInvalidPayload
}

// MarshalJSON - JSON null
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON - number text as is
func (n Number) MarshalJSON() ([]byte, error) {
	if 0 == len(n) {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// MarshalJSON - array of members
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// MarshalJSON - JSON object
func (m Map) MarshalJSON() ([]byte, error) {
	fields := make(map[string]Value, m.Len())
	m.Each(func(key string, value Value) {
		fields[key] = value
	})
	return json.Marshal(fields)
}

// MarshalJSON - JSON array, nil elements become null
func (l List) MarshalJSON() ([]byte, error) {
	items := make([]Value, len(l))
	for i, v := range l {
		if nil == v {
			items[i] = Null{}
		} else {
			items[i] = v
		}
	}
	return json.Marshal(items)
}
