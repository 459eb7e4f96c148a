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
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	"github.com/AtomQu/cesium-native/geometry"
	"github.com/AtomQu/cesium-native/geospatial"
)

func init() {
	RegisterContentLoader("application/json", []byte("{"), loadExternalTilesetContent)
}

// loadExternalTilesetContent decodes a tileset manifest payload.  The
// external tileset's root becomes a child of the referring tile; the tile
// itself stays model-less.
func loadExternalTilesetContent(input ContentInput) (*TileContent, error) {
	root, err := parseTilesetManifest(input.Host, input.Data)
	if err != nil {
		return nil, fmt.Errorf("external tileset %q: %w", input.URL, err)
	}

	return &TileContent{
		ChildTiles: []*Tile{root},
		ByteSize:   int64(len(input.Data)),
	}, nil
}

type manifestBoundingVolume struct {
	Box    []float64 `json:"box"`
	Region []float64 `json:"region"`
	Sphere []float64 `json:"sphere"`
}

type manifestContent struct {
	URI            string                  `json:"uri"`
	URL            string                  `json:"url"` // pre-1.0 manifests
	BoundingVolume *manifestBoundingVolume `json:"boundingVolume"`
}

type manifestTile struct {
	BoundingVolume      manifestBoundingVolume  `json:"boundingVolume"`
	ViewerRequestVolume *manifestBoundingVolume `json:"viewerRequestVolume"`
	GeometricError      float64                 `json:"geometricError"`
	Refine              string                  `json:"refine"`
	Transform           []float64               `json:"transform"`
	Content             *manifestContent        `json:"content"`
	Children            []manifestTile          `json:"children"`
}

type tilesetManifest struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	GeometricError float64       `json:"geometricError"`
	Root           *manifestTile `json:"root"`
}

// parseTilesetManifest builds a tile tree from a tileset.json payload.
// The returned root has no parent; the caller installs it.
func parseTilesetManifest(host TilesetHost, data []byte) (*Tile, error) {
	var manifest tilesetManifest

	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("could not parse tileset manifest: %w", err)
	}

	if manifest.Root == nil {
		return nil, ErrManifestRootMissing
	}

	return buildManifestTile(host, manifest.Root, RefineReplace)
}

func buildManifestTile(host TilesetHost, m *manifestTile, parentRefine Refine) (*Tile, error) {
	tile := NewTile(host)

	volume, err := decodeBoundingVolume(&m.BoundingVolume)
	if err != nil {
		return nil, err
	}

	tile.SetBoundingVolume(volume)
	tile.SetGeometricError(m.GeometricError)

	// Refine is inherited when a tile doesn't say.
	refine := parentRefine

	switch m.Refine {
	case "REPLACE":
		refine = RefineReplace
	case "ADD":
		refine = RefineAdd
	}

	tile.SetRefine(refine)

	if len(m.Transform) == 16 {
		var transform geometry.Matrix4
		copy(transform[:], m.Transform)
		tile.SetTransform(transform)
	}

	if m.ViewerRequestVolume != nil {
		volume, err := decodeBoundingVolume(m.ViewerRequestVolume)
		if err != nil {
			return nil, err
		}

		tile.SetViewerRequestVolume(volume)
	}

	if m.Content != nil {
		uri := m.Content.URI
		if uri == "" {
			uri = m.Content.URL
		}

		tile.SetTileID(URLTileID(uri))

		if m.Content.BoundingVolume != nil {
			volume, err := decodeBoundingVolume(m.Content.BoundingVolume)
			if err != nil {
				return nil, err
			}

			tile.SetContentBoundingVolume(volume)
		}
	}

	if len(m.Children) > 0 {
		children := make([]*Tile, 0, len(m.Children))

		for i := range m.Children {
			child, err := buildManifestTile(host, &m.Children[i], refine)
			if err != nil {
				return nil, err
			}

			children = append(children, child)
		}

		if err := tile.CreateChildTiles(children); err != nil {
			return nil, err
		}
	}

	return tile, nil
}

func decodeBoundingVolume(m *manifestBoundingVolume) (BoundingVolume, error) {
	switch {
	case len(m.Region) == 6:
		return geospatial.BoundingRegion{
			Rectangle: geospatial.GlobeRectangle{
				West:  s1.Angle(m.Region[0]),
				South: s1.Angle(m.Region[1]),
				East:  s1.Angle(m.Region[2]),
				North: s1.Angle(m.Region[3]),
			},
			MinimumHeight: m.Region[4],
			MaximumHeight: m.Region[5],
		}, nil
	case len(m.Box) == 12:
		var halfAxes geometry.Matrix3
		copy(halfAxes[:], m.Box[3:12])

		return geometry.OrientedBoundingBox{
			Center:   r3.Vector{X: m.Box[0], Y: m.Box[1], Z: m.Box[2]},
			HalfAxes: halfAxes,
		}, nil
	case len(m.Sphere) == 4:
		return geometry.BoundingSphere{
			Center: r3.Vector{X: m.Sphere[0], Y: m.Sphere[1], Z: m.Sphere[2]},
			Radius: m.Sphere[3],
		}, nil
	default:
		return nil, ErrManifestBoundingVolume
	}
}
