package api

import (
	"bytes"
	"encoding/json"
)

// Normalize extracts the meaningful payload from a response envelope E:
//
//  1. E.data is an object holding user → E.data.user
//  2. E.data holds post → E.data.post
//  3. E.data is an array → E when E also carries pagination (the
//     {data, pagination} list shape), E.data otherwise;
//     E.data is an object holding pagination → E.data
//  4. E.data is any other non-empty object → E.data
//  5. E.user → E.user, else E.post → E.post
//  6. E itself
//
// Keys count only when their value is truthy (not null, false, 0 or "").
// A body that is not a JSON object is returned unchanged.
func Normalize(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, ErrBadResponse
	}
	if !isObject(body) {
		return json.RawMessage(body), nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	if data, ok := env["data"]; ok {
		switch {
		case isObject(data):
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(data, &inner); err != nil {
				return nil, err
			}
			if v, ok := inner["user"]; ok && truthy(v) {
				return v, nil
			}
			if v, ok := inner["post"]; ok && truthy(v) {
				return v, nil
			}
			if v, ok := inner["pagination"]; ok && truthy(v) {
				return data, nil
			}
			if len(inner) > 0 {
				return data, nil
			}
		case isArray(data):
			if v, ok := env["pagination"]; ok && truthy(v) {
				return json.RawMessage(body), nil
			}
			return data, nil
		}
	}

	if v, ok := env["user"]; ok && truthy(v) {
		return v, nil
	}
	if v, ok := env["post"]; ok && truthy(v) {
		return v, nil
	}
	return json.RawMessage(body), nil
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func truthy(raw []byte) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
