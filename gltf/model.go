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

package gltf

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/AtomQu/cesium-native/geometry"
	"github.com/AtomQu/cesium-native/geospatial"
)

// Model is decoded tile geometry: the glTF document, its binary chunk, and
// the vertex positions converted to geodetic coordinates.  It satisfies
// the lifecycle core's ContentModel contract.
type Model struct {
	doc    *Document
	binary []byte

	vertices  []geospatial.Cartographic
	texCoords map[uint32][]r2.Point
}

// NewModel builds a model from a parsed document.  Vertex positions are
// earth-centered, earth-fixed; rtcCenter is added to each (b3dm payloads
// store positions relative to a center to keep float32 precision).
func NewModel(doc *Document, bin []byte, rtcCenter r3.Vector) (*Model, error) {
	ecef, err := positions(doc, bin)
	if err != nil {
		return nil, err
	}

	vertices := make([]geospatial.Cartographic, len(ecef))
	for i, v := range ecef {
		vertices[i] = geospatial.WGS84.CartesianToCartographic(v.Add(rtcCenter))
	}

	return &Model{
		doc:       doc,
		binary:    bin,
		vertices:  vertices,
		texCoords: make(map[uint32][]r2.Point),
	}, nil
}

// Document returns the underlying glTF document.
func (m *Model) Document() *Document { return m.doc }

// Binary returns the glTF binary chunk, possibly nil.
func (m *Model) Binary() []byte { return m.binary }

// VertexCount returns the number of vertices across all primitives.
func (m *Model) VertexCount() int { return len(m.vertices) }

// CreateRasterOverlayTextureCoordinates generates texture coordinate set
// projectionID by projecting every vertex and normalizing against the
// projected rectangle.  Coordinates are clamped to [0, 1].
func (m *Model) CreateRasterOverlayTextureCoordinates(projectionID uint32, projection geospatial.Projection, rectangle geometry.Rectangle) {
	coords := make([]r2.Point, len(m.vertices))

	width := rectangle.Width()
	height := rectangle.Height()

	for i, vertex := range m.vertices {
		p := projection.Project(vertex)

		var u, v float64
		if width > 0 {
			u = geometry.Clamp((p.X-rectangle.MinimumX)/width, 0, 1)
		}

		if height > 0 {
			v = geometry.Clamp((p.Y-rectangle.MinimumY)/height, 0, 1)
		}

		coords[i] = r2.Point{X: u, Y: v}
	}

	m.texCoords[projectionID] = coords
}

// TextureCoordinates returns the generated coordinate set, or nil when the
// ID was never generated.
func (m *Model) TextureCoordinates(projectionID uint32) []r2.Point {
	return m.texCoords[projectionID]
}

// TextureCoordinateSetCount returns the number of generated sets.
func (m *Model) TextureCoordinateSetCount() int { return len(m.texCoords) }
