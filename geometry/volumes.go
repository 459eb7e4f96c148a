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

package geometry

import (
	"github.com/golang/geo/r3"
)

// Matrix3 is a 3x3 matrix in column-major order.
type Matrix3 [9]float64

// Column returns column i as a vector.
func (m Matrix3) Column(i int) r3.Vector {
	return r3.Vector{X: m[3*i], Y: m[3*i+1], Z: m[3*i+2]}
}

// Matrix4 is a 4x4 affine transform in column-major order.
type Matrix4 [16]float64

// IdentityMatrix4 returns the identity transform.
func IdentityMatrix4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Multiply returns m * o.
func (m Matrix4) Multiply(o Matrix4) Matrix4 {
	var out Matrix4

	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[4*k+row] * o[4*col+k]
			}

			out[4*col+row] = sum
		}
	}

	return out
}

// TransformPoint applies the affine transform to a point (w = 1).
func (m Matrix4) TransformPoint(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// OrientedBoundingBox is a box of arbitrary orientation described by its
// center and three half-axis vectors packed into a matrix.
type OrientedBoundingBox struct {
	Center   r3.Vector
	HalfAxes Matrix3
}

// BoundingSphere is a sphere described by its center and radius.
type BoundingSphere struct {
	Center r3.Vector
	Radius float64
}
