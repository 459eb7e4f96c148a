// Copyright 2024-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cesium_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cesium "github.com/AtomQu/cesium-native"
)

func TestQuadtreeTileIDValid(t *testing.T) {
	test_cases := []struct {
		name     string
		id       cesium.QuadtreeTileID
		expected bool
	}{
		{"origin", cesium.QuadtreeTileID{Level: 0, X: 0, Y: 0}, true},
		{"in range", cesium.QuadtreeTileID{Level: 3, X: 7, Y: 7}, true},
		{"x out of range", cesium.QuadtreeTileID{Level: 3, X: 8, Y: 0}, false},
		{"y out of range", cesium.QuadtreeTileID{Level: 3, X: 0, Y: 8}, false},
		{"level out of range", cesium.QuadtreeTileID{Level: 32, X: 0, Y: 0}, false},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.id.Valid())
		})
	}
}

func TestQuadtreeTileIDQuadkey(t *testing.T) {
	test_cases := []struct {
		name     string
		id       cesium.QuadtreeTileID
		expected string
	}{
		{"root", cesium.QuadtreeTileID{Level: 0, X: 0, Y: 0}, ""},
		{"level one", cesium.QuadtreeTileID{Level: 1, X: 1, Y: 0}, "1"},
		{"level three", cesium.QuadtreeTileID{Level: 3, X: 3, Y: 5}, "213"},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.id.Quadkey())
		})
	}
}
