// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues time-ordered identifiers for request ids and
interaction events.

Version 7 values sort by creation time, so consumers reading the event
stream or grepping logs can order ids without parsing a timestamp.
*/
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 string. If the clock-based generator fails it falls
// back to a random v4 value rather than failing the caller.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
