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

package geospatial

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"

	"github.com/AtomQu/cesium-native/geometry"
)

// Projection maps geodetic coordinates onto a 2D plane.  Implementations
// must be comparable values; two projections compare equal with == exactly
// when they produce identical mappings, which is what keeps texture
// coordinate IDs stable across raster overlays sharing a projection.
type Projection interface {
	// Project maps a cartographic position to projected 2D coordinates.
	Project(c Cartographic) r2.Point

	// Unproject maps projected 2D coordinates back to a cartographic
	// position at height zero.
	Unproject(p r2.Point) Cartographic
}

// GeographicProjection is the equirectangular (plate carrée) projection:
// meters proportional to longitude and latitude.
type GeographicProjection struct {
	Ellipsoid Ellipsoid
}

// NewGeographicProjection returns a geographic projection on WGS84.
func NewGeographicProjection() GeographicProjection {
	return GeographicProjection{Ellipsoid: WGS84}
}

func (g GeographicProjection) Project(c Cartographic) r2.Point {
	r := g.Ellipsoid.MaximumRadius()

	return r2.Point{
		X: c.Longitude.Radians() * r,
		Y: c.Latitude.Radians() * r,
	}
}

func (g GeographicProjection) Unproject(p r2.Point) Cartographic {
	r := g.Ellipsoid.MaximumRadius()

	return Cartographic{
		Longitude: s1.Angle(p.X / r),
		Latitude:  s1.Angle(p.Y / r),
	}
}

// WebMercatorProjection is the EPSG:3857 spherical mercator projection.
type WebMercatorProjection struct {
	Ellipsoid Ellipsoid
}

// MaximumMercatorLatitude is the latitude beyond which web mercator is
// undefined; inputs are clamped to it.
const MaximumMercatorLatitude = 1.4844222297453324

// NewWebMercatorProjection returns a web mercator projection on WGS84.
func NewWebMercatorProjection() WebMercatorProjection {
	return WebMercatorProjection{Ellipsoid: WGS84}
}

func (w WebMercatorProjection) Project(c Cartographic) r2.Point {
	r := w.Ellipsoid.MaximumRadius()
	lat := geometry.Clamp(c.Latitude.Radians(), -MaximumMercatorLatitude, MaximumMercatorLatitude)

	return r2.Point{
		X: c.Longitude.Radians() * r,
		Y: math.Log(math.Tan(math.Pi/4+lat/2)) * r,
	}
}

func (w WebMercatorProjection) Unproject(p r2.Point) Cartographic {
	r := w.Ellipsoid.MaximumRadius()

	return Cartographic{
		Longitude: s1.Angle(p.X / r),
		Latitude:  s1.Angle(2*math.Atan(math.Exp(p.Y/r)) - math.Pi/2),
	}
}

// ProjectRectangleSimple projects a globe rectangle by projecting its
// southwest and northeast corners.  This is only exact for projections
// whose axes are aligned with longitude and latitude.
func ProjectRectangleSimple(projection Projection, rectangle GlobeRectangle) geometry.Rectangle {
	sw := projection.Project(rectangle.SouthWest())
	ne := projection.Project(rectangle.NorthEast())

	return geometry.Rectangle{
		MinimumX: sw.X,
		MinimumY: sw.Y,
		MaximumX: ne.X,
		MaximumY: ne.Y,
	}
}
