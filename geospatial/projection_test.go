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

package geospatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AtomQu/cesium-native/geospatial"
)

func TestGeographicProjectionRoundTrip(t *testing.T) {
	projection := geospatial.NewGeographicProjection()

	c := geospatial.CartographicFromDegrees(12.5, 41.9, 0)
	p := projection.Project(c)

	back := projection.Unproject(p)
	assert.InDelta(t, c.Longitude.Radians(), back.Longitude.Radians(), 1e-12)
	assert.InDelta(t, c.Latitude.Radians(), back.Latitude.Radians(), 1e-12)
}

func TestWebMercatorProjectionRoundTrip(t *testing.T) {
	projection := geospatial.NewWebMercatorProjection()

	c := geospatial.CartographicFromDegrees(-73.98, 40.75, 0)
	p := projection.Project(c)

	back := projection.Unproject(p)
	assert.InDelta(t, c.Longitude.Radians(), back.Longitude.Radians(), 1e-9)
	assert.InDelta(t, c.Latitude.Radians(), back.Latitude.Radians(), 1e-9)
}

func TestWebMercatorClampsLatitude(t *testing.T) {
	projection := geospatial.NewWebMercatorProjection()

	pole := projection.Project(geospatial.CartographicFromDegrees(0, 90, 0))
	limit := projection.Project(geospatial.Cartographic{Latitude: geospatial.MaximumMercatorLatitude})

	assert.InDelta(t, limit.Y, pole.Y, 1e-6)
	assert.False(t, math.IsInf(pole.Y, 1))
}

func TestProjectionsCompareByValue(t *testing.T) {
	var a, b geospatial.Projection = geospatial.NewGeographicProjection(), geospatial.NewGeographicProjection()

	assert.True(t, a == b)
	assert.False(t, a == geospatial.Projection(geospatial.NewWebMercatorProjection()))
}

func TestProjectRectangleSimple(t *testing.T) {
	projection := geospatial.NewGeographicProjection()
	rectangle := geospatial.GlobeRectangleFromDegrees(-10, -5, 10, 5)

	projected := geospatial.ProjectRectangleSimple(projection, rectangle)

	assert.Less(t, projected.MinimumX, projected.MaximumX)
	assert.Less(t, projected.MinimumY, projected.MaximumY)
	assert.InDelta(t, -projected.MaximumX, projected.MinimumX, 1e-6)
	assert.InDelta(t, -projected.MaximumY, projected.MinimumY, 1e-6)
}
