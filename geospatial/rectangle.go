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
	"github.com/golang/geo/s1"
)

// GlobeRectangle is a west/south/east/north extent on the ellipsoid.  It
// does not handle rectangles crossing the antimeridian.
type GlobeRectangle struct {
	West  s1.Angle
	South s1.Angle
	East  s1.Angle
	North s1.Angle
}

// GlobeRectangleFromDegrees builds a GlobeRectangle from decimal degrees.
func GlobeRectangleFromDegrees(west, south, east, north float64) GlobeRectangle {
	return GlobeRectangle{
		West:  s1.Angle(west) * s1.Degree,
		South: s1.Angle(south) * s1.Degree,
		East:  s1.Angle(east) * s1.Degree,
		North: s1.Angle(north) * s1.Degree,
	}
}

// Width returns the angular extent in longitude.
func (r GlobeRectangle) Width() s1.Angle { return r.East - r.West }

// Height returns the angular extent in latitude.
func (r GlobeRectangle) Height() s1.Angle { return r.North - r.South }

// Center returns the midpoint of the rectangle at height zero.
func (r GlobeRectangle) Center() Cartographic {
	return Cartographic{
		Longitude: (r.West + r.East) / 2,
		Latitude:  (r.South + r.North) / 2,
	}
}

// Contains checks whether the cartographic position lies inside or on the
// boundary, ignoring height.
func (r GlobeRectangle) Contains(c Cartographic) bool {
	return c.Longitude >= r.West && c.Longitude <= r.East &&
		c.Latitude >= r.South && c.Latitude <= r.North
}

// SouthWest returns the lower-left corner at height zero.
func (r GlobeRectangle) SouthWest() Cartographic {
	return Cartographic{Longitude: r.West, Latitude: r.South}
}

// NorthEast returns the upper-right corner at height zero.
func (r GlobeRectangle) NorthEast() Cartographic {
	return Cartographic{Longitude: r.East, Latitude: r.North}
}

// BoundingRegion is a globe rectangle with minimum and maximum heights.
type BoundingRegion struct {
	Rectangle     GlobeRectangle
	MinimumHeight float64
	MaximumHeight float64
}

// BoundingRegionWithLooseFittingHeights is a bounding region whose heights
// are known to be conservative rather than tight.
type BoundingRegionWithLooseFittingHeights struct {
	Region BoundingRegion
}
