// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Built-in type names.
const (
	String   = "string"
	Boolean  = "boolean"
	Number   = "number"
	Integer  = "integer"
	Version  = "version"
	UUID     = "uuid"
	Duration = "duration"
)

func builtins() map[string]Handler {
	return map[string]Handler{
		String:   stringType{},
		Boolean:  booleanType{},
		Number:   numberType{},
		Integer:  integerType{},
		Version:  versionType{},
		UUID:     uuidType{},
		Duration: durationType{},
	}
}

type stringType struct{}

func (stringType) Parse(raw string) (any, error) { return raw, nil }

type booleanType struct{}

// ParseBool accepts the literals true, false, 1 and 0.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
}

func (booleanType) Parse(raw string) (any, error) {
	return ParseBool(raw)
}

func (booleanType) Validate(raw string) bool {
	_, err := ParseBool(raw)
	return err == nil
}

type numberType struct{}

func (numberType) Parse(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
	}
	return f, nil
}

func (t numberType) Validate(raw string) bool {
	_, err := t.Parse(raw)
	return err == nil
}

type integerType struct{}

func (integerType) Parse(raw string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
	}
	return n, nil
}

func (t integerType) Validate(raw string) bool {
	_, err := t.Parse(raw)
	return err == nil
}

type versionType struct{}

func (versionType) Parse(raw string) (any, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a semantic version: %w", ErrInvalidValue, raw, err)
	}
	return v, nil
}

type uuidType struct{}

func (uuidType) Parse(raw string) (any, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a UUID", ErrInvalidValue, raw)
	}
	return id, nil
}

type durationType struct{}

func (durationType) Parse(raw string) (any, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, raw)
	}
	return d, nil
}
