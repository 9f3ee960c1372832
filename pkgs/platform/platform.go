// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"fmt"
	"strings"
)

// Platform is the build target a reconciler runs for.
type Platform int

const (
	Other Platform = iota
	Android
	IOS
)

func (p Platform) String() string {
	switch p {
	case Android:
		return "android"
	case IOS:
		return "ios"
	default:
		return "other"
	}
}

// Group returns the define-symbol group name of the platform.
// Define symbols are stored per group, not per platform.
func (p Platform) Group() string {
	switch p {
	case Android:
		return "Android"
	case IOS:
		return "iOS"
	default:
		return "Standalone"
	}
}

// Parse parses a platform name such as "android" or "ios".
// Names are matched case-insensitively; unknown names are an error.
func Parse(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "android":
		return Android, nil
	case "ios", "iphone":
		return IOS, nil
	case "other", "standalone", "":
		return Other, nil
	}
	return Other, fmt.Errorf("unknown platform %q", name)
}

// Set implements pflag.Value so a Platform can be bound to a command flag.
func (p *Platform) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Type implements pflag.Value.
func (p *Platform) Type() string {
	return "platform"
}
