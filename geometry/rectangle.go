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

// Package geometry provides the planar and Cartesian primitives used by the
// tile hierarchy: axis-aligned 2D rectangles, oriented bounding boxes, and
// bounding spheres.
package geometry

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Rectangle is an axis-aligned rectangle in an arbitrary projected 2D
// coordinate system.
type Rectangle struct {
	MinimumX float64
	MinimumY float64
	MaximumX float64
	MaximumY float64
}

// Width returns the extent along the X axis.
func (r Rectangle) Width() float64 { return r.MaximumX - r.MinimumX }

// Height returns the extent along the Y axis.
func (r Rectangle) Height() float64 { return r.MaximumY - r.MinimumY }

// Contains checks whether the point lies inside or on the boundary.
func (r Rectangle) Contains(p r2.Point) bool {
	return p.X >= r.MinimumX && p.X <= r.MaximumX &&
		p.Y >= r.MinimumY && p.Y <= r.MaximumY
}

// Union returns the smallest rectangle covering both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	return Rectangle{
		MinimumX: min(r.MinimumX, o.MinimumX),
		MinimumY: min(r.MinimumY, o.MinimumY),
		MaximumX: max(r.MaximumX, o.MaximumX),
		MaximumY: max(r.MaximumY, o.MaximumY),
	}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", r.MinimumX, r.MinimumY, r.MaximumX, r.MaximumY)
}
