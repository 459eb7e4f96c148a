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
	"github.com/golang/geo/r3"

	cesium "github.com/AtomQu/cesium-native"
)

func init() {
	cesium.RegisterContentLoader("model/gltf-binary", []byte("glTF"), LoadGLB)
	cesium.RegisterContentLoader("application/vnd.cesium.b3dm", []byte("b3dm"), LoadB3DM)
}

// LoadGLB decodes a binary glTF payload into tile content.
func LoadGLB(input cesium.ContentInput) (*cesium.TileContent, error) {
	return modelContent(input, input.Data, r3.Vector{})
}

// LoadB3DM decodes a batched 3D model payload into tile content.
func LoadB3DM(input cesium.ContentInput) (*cesium.TileContent, error) {
	glb, rtcCenter, err := ParseB3DM(input.Data)
	if err != nil {
		return nil, err
	}

	return modelContent(input, glb, rtcCenter)
}

func modelContent(input cesium.ContentInput, glb []byte, rtcCenter r3.Vector) (*cesium.TileContent, error) {
	doc, bin, err := ParseGLB(glb)
	if err != nil {
		return nil, err
	}

	model, err := NewModel(doc, bin, rtcCenter)
	if err != nil {
		return nil, err
	}

	return &cesium.TileContent{
		Model:    model,
		ByteSize: int64(len(input.Data)),
	}, nil
}
