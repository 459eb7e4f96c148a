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
	"bytes"
	"fmt"
	"sync"

	"github.com/AtomQu/cesium-native/geometry"
	"github.com/AtomQu/cesium-native/geospatial"
)

// ContentModel is decoded, renderable geometry.  The lifecycle core only
// needs to generate texture coordinate sets on it; everything else about
// the model is the renderer adapter's business.
type ContentModel interface {
	// CreateRasterOverlayTextureCoordinates generates the texture
	// coordinate set with the given ID by projecting the model's
	// vertices and normalizing them against the projected rectangle.
	CreateRasterOverlayTextureCoordinates(projectionID uint32, projection geospatial.Projection, rectangle geometry.Rectangle)
}

// TileContent is the decoded content of a tile.
type TileContent struct {
	// Model is the renderable geometry, or nil when the content was an
	// external tileset descriptor or intentionally blank.
	Model ContentModel

	// ChildTiles carries new children when the content describes them,
	// e.g. the root of an external tileset.  Moved onto the tile during
	// the next main-thread update.
	ChildTiles []*Tile

	// UpdatedBoundingVolume optionally replaces the bounding volume
	// announced by the parent's metadata.
	UpdatedBoundingVolume BoundingVolume

	// ByteSize is the size of the content's payload, used for cache
	// accounting.
	ByteSize int64
}

// ContentInput is everything a content loader gets to work with.
type ContentInput struct {
	Host                  TilesetHost
	TileID                TileID
	BoundingVolume        BoundingVolume
	GeometricError        float64
	Transform             geometry.Matrix4
	ContentBoundingVolume BoundingVolume
	Refine                Refine
	URL                   string
	ContentType           string
	Data                  []byte
}

// ContentLoader decodes a payload into tile content.  A nil content with a
// nil error means the loader recognized the payload but produced a blank
// tile.
type ContentLoader func(input ContentInput) (*TileContent, error)

type contentRegistration struct {
	contentType string
	magic       []byte
	load        ContentLoader
}

var (
	contentRegistryMu sync.RWMutex
	contentRegistry   []contentRegistration
)

// RegisterContentLoader registers a loader for a content type.  The loader
// is selected by exact content-type match, or by payload magic prefix when
// the content type is missing or unknown.  Either contentType or magic may
// be empty.
func RegisterContentLoader(contentType string, magic []byte, load ContentLoader) {
	contentRegistryMu.Lock()
	defer contentRegistryMu.Unlock()

	contentRegistry = append(contentRegistry, contentRegistration{
		contentType: contentType,
		magic:       magic,
		load:        load,
	})
}

// CreateContent dispatches a payload to the registered loader.  Payloads no
// loader recognizes yield nil content, which the pipeline treats as a blank
// tile.  A panicking loader is confined to the failing tile: the panic is
// returned as an error so a malformed payload cannot take down the worker
// pool.
func CreateContent(input ContentInput) (content *TileContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("content loader panic for %q: %v", input.URL, r)
		}
	}()

	return createContent(input)
}

func createContent(input ContentInput) (*TileContent, error) {
	contentRegistryMu.RLock()
	defer contentRegistryMu.RUnlock()

	if input.ContentType != "" {
		for _, reg := range contentRegistry {
			if reg.contentType == input.ContentType {
				return reg.load(input)
			}
		}
	}

	for _, reg := range contentRegistry {
		if len(reg.magic) > 0 && bytes.HasPrefix(input.Data, reg.magic) {
			return reg.load(input)
		}
	}

	return nil, nil
}
