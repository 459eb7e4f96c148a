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

// Package gltf decodes glTF and b3dm tile content into the minimal model
// the tile lifecycle core needs: vertex positions for texture coordinate
// generation, plus the raw document for the renderer adapter.
package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/golang/geo/r3"
)

var (
	// ErrNotGLB is returned for payloads without the glTF binary magic.
	ErrNotGLB = errors.New("not a binary glTF payload")

	// ErrTruncated is returned when a payload ends mid-structure.
	ErrTruncated = errors.New("truncated glTF payload")
)

const (
	glbMagic         = 0x46546c67 // "glTF"
	glbChunkTypeJSON = 0x4e4f534a // "JSON"
	glbChunkTypeBin  = 0x004e4942 // "BIN\0"

	componentTypeFloat = 5126
)

// Document is the subset of the glTF JSON schema needed to locate vertex
// positions.
type Document struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Buffers []struct {
		ByteLength int `json:"byteLength"`
	} `json:"buffers"`
	BufferViews []BufferView `json:"bufferViews"`
	Accessors   []Accessor   `json:"accessors"`
	Meshes      []Mesh       `json:"meshes"`
}

// BufferView is a byte range within a buffer.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

// Accessor describes typed data within a buffer view.
type Accessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

// Mesh is a set of primitives.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
}

// Primitive maps attribute names to accessor indices.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
}

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	Length uint32
	Type   uint32
}

// ParseGLB splits a payload into its glTF document and binary chunk.  Bare
// JSON payloads (glTF without the binary container) are accepted with a nil
// binary chunk.
func ParseGLB(data []byte) (*Document, []byte, error) {
	if len(data) > 0 && data[0] == '{' {
		doc := &Document{}
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, nil, fmt.Errorf("could not parse glTF document: %w", err)
		}

		return doc, nil, nil
	}

	r := bytes.NewReader(data)

	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, ErrTruncated
	}

	if header.Magic != glbMagic {
		return nil, nil, ErrNotGLB
	}

	var (
		doc *Document
		bin []byte
	)

	for {
		var chunk glbChunkHeader

		err := binary.Read(r, binary.LittleEndian, &chunk)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, ErrTruncated
		}

		payload := make([]byte, chunk.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, ErrTruncated
		}

		switch chunk.Type {
		case glbChunkTypeJSON:
			doc = &Document{}
			if err := json.Unmarshal(payload, doc); err != nil {
				return nil, nil, fmt.Errorf("could not parse glTF document: %w", err)
			}
		case glbChunkTypeBin:
			bin = payload
		}
	}

	if doc == nil {
		return nil, nil, ErrTruncated
	}

	return doc, bin, nil
}

// positions extracts every POSITION attribute as Cartesian vectors.
// Positions are float32 VEC3 per the glTF schema.
func positions(doc *Document, bin []byte) ([]r3.Vector, error) {
	var out []r3.Vector

	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			index, ok := primitive.Attributes["POSITION"]
			if !ok {
				continue
			}

			if index < 0 || index >= len(doc.Accessors) {
				return nil, fmt.Errorf("accessor %d out of range", index)
			}

			accessor := doc.Accessors[index]
			if accessor.ComponentType != componentTypeFloat || accessor.Type != "VEC3" {
				return nil, fmt.Errorf("POSITION accessor %d is not a float VEC3", index)
			}

			if accessor.BufferView == nil {
				continue
			}

			if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
				return nil, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
			}

			view := doc.BufferViews[*accessor.BufferView]

			stride := view.ByteStride
			if stride == 0 {
				stride = 12
			}

			base := view.ByteOffset + accessor.ByteOffset

			for i := 0; i < accessor.Count; i++ {
				offset := base + i*stride
				if offset < 0 || offset+12 > len(bin) {
					return nil, ErrTruncated
				}

				out = append(out, r3.Vector{
					X: float64(math.Float32frombits(binary.LittleEndian.Uint32(bin[offset:]))),
					Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(bin[offset+4:]))),
					Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(bin[offset+8:]))),
				})
			}
		}
	}

	return out, nil
}
