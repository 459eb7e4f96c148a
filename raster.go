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
	"sync/atomic"

	"github.com/AtomQu/cesium-native/geospatial"
)

// RasterLoadState is the lifecycle state of a raster overlay tile.
type RasterLoadState int32

const (
	// RasterLoadStateUnloaded marks an overlay tile with no imagery.
	RasterLoadStateUnloaded RasterLoadState = iota

	// RasterLoadStateLoading marks imagery being fetched or decoded.
	RasterLoadStateLoading

	// RasterLoadStateLoaded marks decoded imagery awaiting its
	// main-thread load step.
	RasterLoadStateLoaded

	// RasterLoadStateDone marks fully prepared imagery.
	RasterLoadStateDone

	// RasterLoadStateFailed marks imagery that could not be loaded.
	RasterLoadStateFailed
)

// RasterOverlayTile is one tile of imagery from a raster overlay.  Overlay
// tiles are shared by reference count across the geometry tiles they are
// draped over.
type RasterOverlayTile struct {
	provider  RasterOverlayTileProvider
	rectangle geospatial.GlobeRectangle
	state     atomic.Int32
	refs      atomic.Int32
}

// NewRasterOverlayTile creates an overlay tile for the given provider and
// extent, in the Unloaded state.
func NewRasterOverlayTile(provider RasterOverlayTileProvider, rectangle geospatial.GlobeRectangle) *RasterOverlayTile {
	return &RasterOverlayTile{
		provider:  provider,
		rectangle: rectangle,
	}
}

// Provider returns the provider this overlay tile came from.
func (t *RasterOverlayTile) Provider() RasterOverlayTileProvider { return t.provider }

// Rectangle returns the extent this overlay tile covers.
func (t *RasterOverlayTile) Rectangle() geospatial.GlobeRectangle { return t.rectangle }

// State returns the current load state.
func (t *RasterOverlayTile) State() RasterLoadState {
	return RasterLoadState(t.state.Load())
}

// SetState publishes a new load state.  Providers drive the tile through
// Loading to Loaded or Failed.
func (t *RasterOverlayTile) SetState(state RasterLoadState) {
	t.state.Store(int32(state))
}

// LoadInMainThread performs the main-thread part of imagery preparation.
// Precondition: the tile is no longer Loading.
func (t *RasterOverlayTile) LoadInMainThread() {
	if t.State() == RasterLoadStateLoaded {
		t.SetState(RasterLoadStateDone)
	}
}

// AddRef records a geometry tile holding this overlay tile.
func (t *RasterOverlayTile) AddRef() { t.refs.Add(1) }

// Release drops a reference and reports the remaining count.
func (t *RasterOverlayTile) Release() int32 { return t.refs.Add(-1) }

// RasterOverlayTileProvider supplies overlay tiles for regions of geometry.
type RasterOverlayTileProvider interface {
	// Projection returns the projection the overlay's imagery is
	// organized in.  Compared by value to share texture coordinates
	// between overlays.
	Projection() geospatial.Projection

	// MapRasterTilesToGeometryTile appends to mapped one mapping per
	// overlay tile covering the given extent, and returns the extended
	// slice.
	MapRasterTilesToGeometryTile(rectangle geospatial.GlobeRectangle, geometricError float64, mapped []RasterMappedToTile) []RasterMappedToTile
}

// RasterOverlayCollection is the ordered set of overlay providers draped
// over a tileset.
type RasterOverlayCollection struct {
	providers []RasterOverlayTileProvider
}

// Add appends a provider to the collection.
func (c *RasterOverlayCollection) Add(provider RasterOverlayTileProvider) {
	c.providers = append(c.providers, provider)
}

// TileProviders returns the providers in draping order.
func (c *RasterOverlayCollection) TileProviders() []RasterOverlayTileProvider {
	return c.providers
}

// AttachmentState tracks whether a raster mapping's resources are attached
// to its geometry tile.
type AttachmentState int32

const (
	// AttachmentStateUnattached marks a mapping whose overlay resources
	// are not yet attached to the geometry.
	AttachmentStateUnattached AttachmentState = iota

	// AttachmentStateAttached marks attached overlay resources.
	AttachmentStateAttached

	// AttachmentStateDetached marks a mapping detached at unload.
	AttachmentStateDetached
)

// RasterMappedToTile binds a raster overlay tile to a region of a geometry
// tile through a generated texture coordinate set.
type RasterMappedToTile struct {
	rasterTile          *RasterOverlayTile
	textureCoordinateID uint32
	state               AttachmentState
}

// NewRasterMappedToTile creates an unattached mapping for the overlay tile.
func NewRasterMappedToTile(rasterTile *RasterOverlayTile) RasterMappedToTile {
	rasterTile.AddRef()

	return RasterMappedToTile{rasterTile: rasterTile}
}

// RasterTile returns the mapped overlay tile.
func (m *RasterMappedToTile) RasterTile() *RasterOverlayTile { return m.rasterTile }

// TextureCoordinateID returns the texture coordinate set index assigned
// during content load.
func (m *RasterMappedToTile) TextureCoordinateID() uint32 { return m.textureCoordinateID }

// SetTextureCoordinateID assigns the texture coordinate set index.
func (m *RasterMappedToTile) SetTextureCoordinateID(id uint32) { m.textureCoordinateID = id }

// State returns the attachment state.
func (m *RasterMappedToTile) State() AttachmentState { return m.state }

// AttachToTile attaches the overlay tile's resources to the geometry tile.
// Main thread only; precondition: the overlay tile is no longer Loading.
func (m *RasterMappedToTile) AttachToTile(*Tile) {
	m.state = AttachmentStateAttached
}

// detachFromTile releases the overlay resources at unload.
func (m *RasterMappedToTile) detachFromTile(*Tile) {
	m.rasterTile.Release()
	m.state = AttachmentStateDetached
}
