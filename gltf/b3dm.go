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
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

// ErrNotB3DM is returned for payloads without the b3dm magic.
var ErrNotB3DM = errors.New("not a b3dm payload")

const b3dmHeaderLength = 28

type b3dmHeader struct {
	Magic                        [4]byte
	Version                      uint32
	ByteLength                   uint32
	FeatureTableJSONByteLength   uint32
	FeatureTableBinaryByteLength uint32
	BatchTableJSONByteLength     uint32
	BatchTableBinaryByteLength   uint32
}

// b3dmFeatureTable is the subset of the feature table the decoder cares
// about.
type b3dmFeatureTable struct {
	RTCCenter []float64 `json:"RTC_CENTER"`
}

// ParseB3DM splits a batched 3D model payload into its embedded binary
// glTF and the feature table's RTC center.
func ParseB3DM(data []byte) (glb []byte, rtcCenter r3.Vector, err error) {
	r := bytes.NewReader(data)

	var header b3dmHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, r3.Vector{}, ErrTruncated
	}

	if string(header.Magic[:]) != "b3dm" {
		return nil, r3.Vector{}, ErrNotB3DM
	}

	if int(header.ByteLength) > len(data) {
		return nil, r3.Vector{}, ErrTruncated
	}

	ftJSONStart := b3dmHeaderLength
	ftJSONEnd := ftJSONStart + int(header.FeatureTableJSONByteLength)
	glbStart := ftJSONEnd +
		int(header.FeatureTableBinaryByteLength) +
		int(header.BatchTableJSONByteLength) +
		int(header.BatchTableBinaryByteLength)

	if glbStart > int(header.ByteLength) {
		return nil, r3.Vector{}, ErrTruncated
	}

	if header.FeatureTableJSONByteLength > 0 {
		var table b3dmFeatureTable
		if err := json.Unmarshal(data[ftJSONStart:ftJSONEnd], &table); err != nil {
			return nil, r3.Vector{}, fmt.Errorf("could not parse b3dm feature table: %w", err)
		}

		if len(table.RTCCenter) == 3 {
			rtcCenter = r3.Vector{X: table.RTCCenter[0], Y: table.RTCCenter[1], Z: table.RTCCenter[2]}
		}
	}

	return data[glbStart:header.ByteLength], rtcCenter, nil
}
