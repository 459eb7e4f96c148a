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

// Package geospatial provides the geodetic primitives the tile hierarchy is
// described in: cartographic coordinates, globe rectangles, bounding
// regions, and map projections.
package geospatial

import (
	"fmt"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Cartographic is a geodetic position: longitude and latitude as angles,
// height in meters above the ellipsoid.
type Cartographic struct {
	Longitude s1.Angle
	Latitude  s1.Angle
	Height    float64
}

// CartographicFromDegrees builds a Cartographic from decimal degrees.
func CartographicFromDegrees(lon, lat, height float64) Cartographic {
	return Cartographic{
		Longitude: s1.Angle(lon) * s1.Degree,
		Latitude:  s1.Angle(lat) * s1.Degree,
		Height:    height,
	}
}

// LatLng returns the equivalent s2.LatLng, discarding height.
func (c Cartographic) LatLng() s2.LatLng {
	return s2.LatLng{Lat: c.Latitude, Lng: c.Longitude}
}

func (c Cartographic) String() string {
	return fmt.Sprintf("(%v, %v, %gm)", c.Longitude, c.Latitude, c.Height)
}
