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

package cesium

import (
	"strings"
)

// TileID identifies a tile within its tileset: either a URL relative to the
// tileset manifest, or structured quadtree coordinates.
type TileID interface {
	// String renders the ID for logs and content URL resolution.
	String() string

	isTileID()
}

// URLTileID is a tile identified by a URL-like string.
type URLTileID string

func (id URLTileID) String() string { return string(id) }

func (URLTileID) isTileID() {}

// QuadtreeTileID is a tile identified by level/x/y quadtree coordinates.
type QuadtreeTileID struct {
	Level uint32
	X     uint32
	Y     uint32
}

// Valid reports whether the coordinates fit the level.
func (id QuadtreeTileID) Valid() bool {
	return id.Level < 32 && id.X < (1<<id.Level) && id.Y < (1<<id.Level)
}

// Quadkey renders the ID as a Bing-style quadkey, one base-4 digit per
// level.
func (id QuadtreeTileID) Quadkey() string {
	var sb strings.Builder

	for level := int(id.Level) - 1; level >= 0; level-- {
		digit := byte('0')
		if id.X&(1<<level) != 0 {
			digit++
		}

		if id.Y&(1<<level) != 0 {
			digit += 2
		}

		sb.WriteByte(digit)
	}

	return sb.String()
}

func (id QuadtreeTileID) String() string { return id.Quadkey() }

func (QuadtreeTileID) isTileID() {}
