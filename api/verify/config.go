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

package verify

import (
	"github.com/BitBoxSwiss/speculos-api-go/api/common"
	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/BitBoxSwiss/speculos-api-go/util/semver"
)

const (
	// AppName is shown on the version banner of the app.
	AppName = "Pocket"

	headerLine = 1
)

var (
	// AppVersion is the app version the bundled scenarios were recorded with.
	AppVersion = semver.NewSemVer(0, 0, 5)

	bodyLines = []int{16, 31, 46}
)

// Config holds everything that differs between device variants.
type Config struct {
	Layout prompts.Layout
	// Normalizer is the fallback comparison. nil disables it.
	Normalizer prompts.Normalizer
}

// IgnoredScreens returns the screens that never carry prompt content: greeting, navigation and
// the version banner of the app.
func IgnoredScreens(appName string, appVersion *semver.SemVer) []string {
	return []string{
		"W e l c o m e",
		"Cancel",
		"Working...",
		"Exit",
		appName + " " + appVersion.String(),
	}
}

// DefaultConfig works with both products: the Nano S Plus text recognition fallback is always
// tried when the exact comparison fails.
func DefaultConfig() *Config {
	return &Config{
		Layout: prompts.Layout{
			HeaderLine: headerLine,
			BodyLines:  append([]int{}, bodyLines...),
			Ignored:    IgnoredScreens(AppName, AppVersion),
		},
		Normalizer: prompts.NanoSPlusOCRPatch(),
	}
}

// ConfigFor returns the configuration of a product. Both products share one screen layout, and
// the text recognition fallback stays enabled on each.
func ConfigFor(product common.Product) (*Config, error) {
	if _, err := common.ProductFromModel(string(product)); err != nil {
		return nil, err
	}
	return DefaultConfig(), nil
}
