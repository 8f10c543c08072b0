// Copyright 2026 Shift Crypto AG
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package semver parses and compares semantic versions of the wallet app.
package semver

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
)

var semverRegexp = regexp.MustCompile(`^v?([0-9]+)\.([0-9]+)\.([0-9]+)$`)

// SemVer models a version with major, minor and patch numbers.
type SemVer struct {
	major uint16
	minor uint16
	patch uint16
}

// NewSemVer creates a new SemVer.
func NewSemVer(major, minor, patch uint16) *SemVer {
	return &SemVer{major: major, minor: minor, patch: patch}
}

// NewSemVerFromString parses "1.2.3" or "v1.2.3".
func NewSemVerFromString(version string) (*SemVer, error) {
	match := semverRegexp.FindStringSubmatch(version)
	if len(match) != 4 {
		return nil, errp.Newf("'%s' is not a valid semantic version", version)
	}
	parts := make([]uint16, 3)
	for i := range parts {
		value, err := strconv.ParseUint(match[i+1], 10, 16)
		if err != nil {
			return nil, errp.WithStack(err)
		}
		parts[i] = uint16(value)
	}
	return NewSemVer(parts[0], parts[1], parts[2]), nil
}

// AtLeast returns true if version is equal to or greater than other.
func (version *SemVer) AtLeast(other *SemVer) bool {
	if version.major != other.major {
		return version.major > other.major
	}
	if version.minor != other.minor {
		return version.minor > other.minor
	}
	return version.patch >= other.patch
}

// String returns "major.minor.patch".
func (version *SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", version.major, version.minor, version.patch)
}
