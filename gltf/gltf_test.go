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

package gltf_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtomQu/cesium-native/geospatial"
	"github.com/AtomQu/cesium-native/gltf"
)

// makeGLB assembles a minimal binary glTF holding one POSITION accessor.
func makeGLB(t *testing.T, positions []r3.Vector) []byte {
	t.Helper()

	var bin bytes.Buffer
	for _, p := range positions {
		require.NoError(t, binary.Write(&bin, binary.LittleEndian, [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}))
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "count": %d, "type": "VEC3"}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}]
}`, bin.Len(), bin.Len(), len(positions))

	docBytes := []byte(doc)
	for len(docBytes)%4 != 0 {
		docBytes = append(docBytes, ' ')
	}

	var glb bytes.Buffer

	total := 12 + 8 + len(docBytes) + 8 + bin.Len()
	require.NoError(t, binary.Write(&glb, binary.LittleEndian, [3]uint32{0x46546c67, 2, uint32(total)}))
	require.NoError(t, binary.Write(&glb, binary.LittleEndian, [2]uint32{uint32(len(docBytes)), 0x4e4f534a}))
	glb.Write(docBytes)
	require.NoError(t, binary.Write(&glb, binary.LittleEndian, [2]uint32{uint32(bin.Len()), 0x004e4942}))
	glb.Write(bin.Bytes())

	return glb.Bytes()
}

// makeB3DM wraps a glb in a b3dm container with an RTC center.
func makeB3DM(t *testing.T, glb []byte, rtcCenter r3.Vector) []byte {
	t.Helper()

	featureTable := fmt.Sprintf(`{"BATCH_LENGTH": 0, "RTC_CENTER": [%g, %g, %g]}`,
		rtcCenter.X, rtcCenter.Y, rtcCenter.Z)

	var b3dm bytes.Buffer

	total := 28 + len(featureTable) + len(glb)
	b3dm.WriteString("b3dm")
	require.NoError(t, binary.Write(&b3dm, binary.LittleEndian, [6]uint32{
		1, uint32(total), uint32(len(featureTable)), 0, 0, 0,
	}))
	b3dm.WriteString(featureTable)
	b3dm.Write(glb)

	return b3dm.Bytes()
}

func cartographicCorners() []geospatial.Cartographic {
	return []geospatial.Cartographic{
		geospatial.CartographicFromDegrees(-10, -5, 0),
		geospatial.CartographicFromDegrees(0, 0, 0),
		geospatial.CartographicFromDegrees(10, 5, 0),
	}
}

func TestParseGLB(t *testing.T) {
	glb := makeGLB(t, []r3.Vector{{X: 1, Y: 2, Z: 3}})

	doc, bin, err := gltf.ParseGLB(glb)
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.Asset.Version)
	assert.Len(t, bin, 12)
	require.Len(t, doc.Accessors, 1)
	assert.Equal(t, 1, doc.Accessors[0].Count)
}

func TestParseGLBBareJSON(t *testing.T) {
	doc, bin, err := gltf.ParseGLB([]byte(`{"asset": {"version": "2.0"}}`))
	require.NoError(t, err)

	assert.Equal(t, "2.0", doc.Asset.Version)
	assert.Nil(t, bin)
}

func TestParseGLBRejectsGarbage(t *testing.T) {
	_, _, err := gltf.ParseGLB([]byte("xxxxyyyyzzzz"))
	assert.ErrorIs(t, err, gltf.ErrNotGLB)

	_, _, err = gltf.ParseGLB([]byte("gl"))
	assert.ErrorIs(t, err, gltf.ErrTruncated)
}

func TestParseB3DM(t *testing.T) {
	rtc := r3.Vector{X: 100, Y: 200, Z: 300}
	glb := makeGLB(t, []r3.Vector{{X: 1, Y: 2, Z: 3}})

	embedded, center, err := gltf.ParseB3DM(makeB3DM(t, glb, rtc))
	require.NoError(t, err)

	assert.Equal(t, rtc, center)
	assert.Equal(t, glb, embedded)
}

func TestParseB3DMRejectsGarbage(t *testing.T) {
	_, _, err := gltf.ParseB3DM([]byte("mdlb aint a magic, this is junk padding"))
	assert.ErrorIs(t, err, gltf.ErrNotB3DM)
}

func TestModelVerticesFromB3DM(t *testing.T) {
	corners := cartographicCorners()
	rtc := geospatial.WGS84.CartographicToCartesian(corners[1])

	// Store positions relative to the RTC center so float32 keeps
	// sub-meter precision.
	var offsets []r3.Vector
	for _, c := range corners {
		offsets = append(offsets, geospatial.WGS84.CartographicToCartesian(c).Sub(rtc))
	}

	payload := makeB3DM(t, makeGLB(t, offsets), rtc)

	glb, center, err := gltf.ParseB3DM(payload)
	require.NoError(t, err)

	doc, bin, err := gltf.ParseGLB(glb)
	require.NoError(t, err)

	model, err := gltf.NewModel(doc, bin, center)
	require.NoError(t, err)
	require.Equal(t, 3, model.VertexCount())
}

func TestModelRejectsBadBufferView(t *testing.T) {
	// An accessor whose bufferView points past the table must surface as
	// an error, not a panic out of the decode worker.
	badDoc := `{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": 12}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": 12}],
  "accessors": [{"bufferView": 5, "componentType": 5126, "count": 1, "type": "VEC3"}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}]
}`

	doc, bin, err := gltf.ParseGLB([]byte(badDoc))
	require.NoError(t, err)

	_, err = gltf.NewModel(doc, bin, r3.Vector{})
	assert.ErrorContains(t, err, "out of range")
}

func TestModelRejectsBadAccessorIndex(t *testing.T) {
	badDoc := `{
  "asset": {"version": "2.0"},
  "accessors": [],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 3}}]}]
}`

	doc, bin, err := gltf.ParseGLB([]byte(badDoc))
	require.NoError(t, err)

	_, err = gltf.NewModel(doc, bin, r3.Vector{})
	assert.ErrorContains(t, err, "out of range")
}

func TestCreateRasterOverlayTextureCoordinates(t *testing.T) {
	corners := cartographicCorners()
	rtc := geospatial.WGS84.CartographicToCartesian(corners[1])

	var offsets []r3.Vector
	for _, c := range corners {
		offsets = append(offsets, geospatial.WGS84.CartographicToCartesian(c).Sub(rtc))
	}

	doc, bin, err := gltf.ParseGLB(makeGLB(t, offsets))
	require.NoError(t, err)

	model, err := gltf.NewModel(doc, bin, rtc)
	require.NoError(t, err)

	projection := geospatial.NewGeographicProjection()
	rectangle := geospatial.GlobeRectangleFromDegrees(-10, -5, 10, 5)

	model.CreateRasterOverlayTextureCoordinates(0, projection, geospatial.ProjectRectangleSimple(projection, rectangle))

	coords := model.TextureCoordinates(0)
	require.Len(t, coords, 3)

	assert.InDelta(t, 0, coords[0].X, 1e-4)
	assert.InDelta(t, 0, coords[0].Y, 1e-4)
	assert.InDelta(t, 0.5, coords[1].X, 1e-4)
	assert.InDelta(t, 0.5, coords[1].Y, 1e-4)
	assert.InDelta(t, 1, coords[2].X, 1e-4)
	assert.InDelta(t, 1, coords[2].Y, 1e-4)

	assert.Equal(t, 1, model.TextureCoordinateSetCount())
	assert.Nil(t, model.TextureCoordinates(7))
}
