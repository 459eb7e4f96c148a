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

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// Ellipsoid is an oblate spheroid described by its semi-major and
// semi-minor axes.
type Ellipsoid struct {
	SemiMajorAxis float64
	SemiMinorAxis float64
}

// WGS84 is the reference ellipsoid tile coordinates are expressed against.
var WGS84 = Ellipsoid{
	SemiMajorAxis: 6378137.0,
	SemiMinorAxis: 6356752.3142451793,
}

// MaximumRadius returns the largest axis of the ellipsoid.
func (e Ellipsoid) MaximumRadius() float64 { return e.SemiMajorAxis }

// CartographicToCartesian converts a geodetic position to earth-centered,
// earth-fixed Cartesian coordinates.
func (e Ellipsoid) CartographicToCartesian(c Cartographic) r3.Vector {
	a := e.SemiMajorAxis
	b := e.SemiMinorAxis
	e2 := 1 - (b*b)/(a*a)

	sinLat := math.Sin(c.Latitude.Radians())
	cosLat := math.Cos(c.Latitude.Radians())
	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	return r3.Vector{
		X: (n + c.Height) * cosLat * math.Cos(c.Longitude.Radians()),
		Y: (n + c.Height) * cosLat * math.Sin(c.Longitude.Radians()),
		Z: (n*(1-e2) + c.Height) * sinLat,
	}
}

// CartesianToCartographic converts earth-centered, earth-fixed Cartesian
// coordinates to a geodetic position using Bowring's method.
func (e Ellipsoid) CartesianToCartographic(v r3.Vector) Cartographic {
	a := e.SemiMajorAxis
	b := e.SemiMinorAxis
	e2 := 1 - (b*b)/(a*a)
	ep2 := (a*a)/(b*b) - 1

	lon := math.Atan2(v.Y, v.X)
	p := math.Hypot(v.X, v.Y)

	theta := math.Atan2(v.Z*a, p*b)
	sinTheta := math.Sin(theta)
	cosTheta := math.Cos(theta)

	lat := math.Atan2(
		v.Z+ep2*b*sinTheta*sinTheta*sinTheta,
		p-e2*a*cosTheta*cosTheta*cosTheta,
	)

	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	var height float64
	if math.Abs(math.Cos(lat)) > 1e-12 {
		height = p/math.Cos(lat) - n
	} else {
		height = math.Abs(v.Z) - b
	}

	return Cartographic{
		Longitude: s1.Angle(lon),
		Latitude:  s1.Angle(lat),
		Height:    height,
	}
}
