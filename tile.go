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

// Package cesium implements the tile lifecycle core of a streaming 3D
// tileset renderer: per-tile load state, the asynchronous content pipeline,
// raster overlay mapping, and the renderer resource handoff.
//
// Three execution contexts touch a tile: the main thread (tree traversal,
// Update, LoadContent, UnloadContent), the asset accessor's I/O context
// (request completion callbacks), and the task processor's worker pool
// (content decode and load-thread renderer prep).  The atomic load state
// cell is the sole synchronization primitive between them; between state
// transitions at most one context mutates the tile.
package cesium

import (
	"log/slog"
	"sync/atomic"

	"github.com/AtomQu/cesium-native/geometry"
	"github.com/AtomQu/cesium-native/geospatial"
)

// Refine is how a tile's children relate to it during traversal.
type Refine int

const (
	// RefineReplace renders children instead of the parent.
	RefineReplace Refine = iota

	// RefineAdd renders children in addition to the parent.
	RefineAdd
)

// BoundingVolume is one of geometry.OrientedBoundingBox,
// geospatial.BoundingRegion, geospatial.BoundingRegionWithLooseFittingHeights,
// or geometry.BoundingSphere.
type BoundingVolume any

// boundingRectangle extracts the globe rectangle of region-based volumes.
func boundingRectangle(volume BoundingVolume) *geospatial.GlobeRectangle {
	switch v := volume.(type) {
	case geospatial.BoundingRegion:
		return &v.Rectangle
	case geospatial.BoundingRegionWithLooseFittingHeights:
		return &v.Region.Rectangle
	default:
		return nil
	}
}

// unreachableGeometricError makes traversal refine past a tile that has
// content but no renderable model.
const unreachableGeometricError = 1e9

// loadedLinks is the intrusive list node threading a tile onto the
// tileset's loaded-tiles LRU.  The tile itself never interprets it.
type loadedLinks struct {
	prev, next *Tile
	list       *LoadedTileList
}

// Tile is one node in the tile hierarchy.
//
// A tile is created Unloaded, LoadContent starts the asynchronous content
// pipeline, Update promotes finished content on the main thread, and
// UnloadContent returns the tile to Unloaded.  All methods are main-thread
// only unless noted.
type Tile struct {
	loadedTilesLinks loadedLinks

	tileset  TilesetHost
	parent   *Tile
	children []*Tile

	boundingVolume        BoundingVolume
	viewerRequestVolume   BoundingVolume
	contentBoundingVolume BoundingVolume
	geometricError        float64
	refine                Refine
	transform             geometry.Matrix4
	id                    TileID

	state              atomic.Int32
	contentRequest     AssetRequest
	content            *TileContent
	rendererResources  any
	rasterTiles        []RasterMappedToTile
	lastSelectionState any
}

// NewTile creates an Unloaded tile owned by the given tileset host.
func NewTile(tileset TilesetHost) *Tile {
	t := &Tile{
		tileset:   tileset,
		transform: geometry.IdentityMatrix4(),
	}
	t.state.Store(int32(LoadStateUnloaded))

	return t
}

// Tileset returns the host this tile belongs to.
func (t *Tile) Tileset() TilesetHost { return t.tileset }

// Parent returns the parent tile, or nil for the root.
func (t *Tile) Parent() *Tile { return t.parent }

// Children returns the tile's children.  The returned slice must not be
// mutated.
func (t *Tile) Children() []*Tile { return t.children }

// CreateChildTiles installs the tile's children.  Children may be installed
// only once; a second call returns ErrChildrenAlreadyCreated.
func (t *Tile) CreateChildTiles(children []*Tile) error {
	if len(t.children) > 0 {
		return ErrChildrenAlreadyCreated
	}

	for _, child := range children {
		child.parent = t
	}

	t.children = children

	return nil
}

// CreateEmptyChildTiles installs count blank children, to be configured by
// the caller.  Like CreateChildTiles, it may succeed only once.
func (t *Tile) CreateEmptyChildTiles(count int) error {
	if len(t.children) > 0 {
		return ErrChildrenAlreadyCreated
	}

	children := make([]*Tile, count)
	for i := range children {
		children[i] = NewTile(t.tileset)
		children[i].parent = t
	}

	t.children = children

	return nil
}

// BoundingVolume returns the tile's bounding volume.
func (t *Tile) BoundingVolume() BoundingVolume { return t.boundingVolume }

// SetBoundingVolume replaces the bounding volume.  Not permitted while
// content is loading.
func (t *Tile) SetBoundingVolume(volume BoundingVolume) {
	t.assertNotLoading("SetBoundingVolume")
	t.boundingVolume = volume
}

// ViewerRequestVolume returns the optional selection gate volume.
func (t *Tile) ViewerRequestVolume() BoundingVolume { return t.viewerRequestVolume }

// SetViewerRequestVolume sets the optional selection gate volume.
func (t *Tile) SetViewerRequestVolume(volume BoundingVolume) {
	t.assertNotLoading("SetViewerRequestVolume")
	t.viewerRequestVolume = volume
}

// ContentBoundingVolume returns the optional tighter content volume.
func (t *Tile) ContentBoundingVolume() BoundingVolume { return t.contentBoundingVolume }

// SetContentBoundingVolume sets the optional tighter content volume.
func (t *Tile) SetContentBoundingVolume(volume BoundingVolume) {
	t.assertNotLoading("SetContentBoundingVolume")
	t.contentBoundingVolume = volume
}

// GeometricError returns the refinement threshold metric.
func (t *Tile) GeometricError() float64 { return t.geometricError }

// SetGeometricError sets the refinement threshold metric.
func (t *Tile) SetGeometricError(geometricError float64) {
	t.assertNotLoading("SetGeometricError")
	t.geometricError = geometricError
}

// Refine returns the refinement mode.
func (t *Tile) Refine() Refine { return t.refine }

// SetRefine sets the refinement mode.
func (t *Tile) SetRefine(refine Refine) {
	t.assertNotLoading("SetRefine")
	t.refine = refine
}

// Transform returns the tile-local to parent-local transform.
func (t *Tile) Transform() geometry.Matrix4 { return t.transform }

// SetTransform sets the tile-local to parent-local transform.
func (t *Tile) SetTransform(transform geometry.Matrix4) {
	t.assertNotLoading("SetTransform")
	t.transform = transform
}

// TileID returns the tile's identity.
func (t *Tile) TileID() TileID { return t.id }

// SetTileID sets the tile's identity.
func (t *Tile) SetTileID(id TileID) {
	t.assertNotLoading("SetTileID")
	t.id = id
}

// Content returns the decoded content, or nil before it is loaded.
func (t *Tile) Content() *TileContent { return t.content }

// RendererResources returns the opaque renderer resource handle.
func (t *Tile) RendererResources() any { return t.rendererResources }

// RasterTiles returns the raster overlay mappings.  The returned slice must
// not be mutated.
func (t *Tile) RasterTiles() []RasterMappedToTile { return t.rasterTiles }

// LastSelectionState returns the traversal's opaque selection bookkeeping.
func (t *Tile) LastSelectionState() any { return t.lastSelectionState }

// SetLastSelectionState stamps the traversal's selection bookkeeping.
func (t *Tile) SetLastSelectionState(state any) { t.lastSelectionState = state }

// State returns the current load state.  Safe from any context.
func (t *Tile) State() LoadState {
	return LoadState(t.state.Load())
}

func (t *Tile) setState(state LoadState) {
	t.state.Store(int32(state))
}

func (t *Tile) assertNotLoading(op string) {
	if t.State() == LoadStateContentLoading {
		panic(op + " while tile content is loading")
	}
}

// IsRenderable reports whether the tile can be rendered this frame.  A
// tile whose content is an external tileset has no renderable geometry; if
// such a tile were selected we would render nothing even though its parent
// and children both have content, leaving a hole until the children load.
// So tiles without a model are treated as non-renderable, as are tiles
// with raster overlay imagery still loading.
func (t *Tile) IsRenderable() bool {
	if t.State() < LoadStateContentLoaded {
		return false
	}

	if t.content == nil || t.content.Model == nil {
		return false
	}

	for i := range t.rasterTiles {
		if t.rasterTiles[i].RasterTile().State() == RasterLoadStateLoading {
			return false
		}
	}

	return true
}

// PrepareToDestroy cancels any in-flight content request and flags a
// loading tile for destruction.  Safe from any context; idempotent.  The
// next pipeline stage that observes the Destroying state terminates the
// load without allocating renderer resources.
func (t *Tile) PrepareToDestroy() {
	if t.contentRequest != nil {
		t.contentRequest.Cancel()
	}

	// Atomically move a loading tile to Destroying; tiles in any other
	// state stay where they are.
	t.state.CompareAndSwap(int32(LoadStateContentLoading), int32(LoadStateDestroying))
}

// Destroy flags the tile for destruction and unloads whatever content can
// be unloaded immediately.
func (t *Tile) Destroy() {
	t.PrepareToDestroy()
	t.UnloadContent()
}

// LoadContent starts the asynchronous content pipeline.  A tile that is
// not Unloaded is left untouched.
func (t *Tile) LoadContent() {
	if t.State() != LoadStateUnloaded {
		return
	}

	t.setState(LoadStateContentLoading)

	rectangle := boundingRectangle(t.boundingVolume)

	// TODO: support overlay mapping for tiles that aren't region-based.
	// Requires placeholder raster tiles resolved once real geometry is
	// available, because the raster rectangle isn't known until each
	// vertex can be projected.

	if rectangle != nil {
		// Map raster tiles into a fresh slice and only then replace the
		// old one, so overlay tiles that are already loaded and still
		// needed are not released too soon.
		providers := t.tileset.Overlays().TileProviders()

		newRasterTiles := make([]RasterMappedToTile, 0, len(providers))
		for _, provider := range providers {
			newRasterTiles = provider.MapRasterTilesToGeometryTile(*rectangle, t.geometricError, newRasterTiles)
		}

		t.rasterTiles = newRasterTiles
	}

	t.contentRequest = t.tileset.RequestTileContent(t)
	if t.contentRequest != nil {
		t.contentRequest.Bind(t.contentResponseReceived)
	} else {
		// No request means the tile's content is synthetic, e.g. children
		// that came from a parent's content.
		t.tileset.NotifyTileDoneLoading(t)
		t.setState(LoadStateContentLoaded)
	}
}

// contentResponseReceived runs on the asset accessor's I/O context when the
// content request completes.
func (t *Tile) contentResponseReceived(request AssetRequest) {
	if t.State() == LoadStateDestroying {
		t.tileset.NotifyTileDoneLoading(t)
		t.setState(LoadStateFailed)

		return
	}

	if t.State() > LoadStateContentLoading {
		// Duplicate response, ignore it.
		return
	}

	response := request.Response()
	if response == nil {
		slog.Debug("tile content request delivered no response", "url", request.URL())
		t.tileset.NotifyTileDoneLoading(t)
		t.setState(LoadStateFailed)

		return
	}

	if response.StatusCode() < 200 || response.StatusCode() >= 300 {
		slog.Debug("tile content request failed", "url", request.URL(), "status", response.StatusCode())
		t.tileset.NotifyTileDoneLoading(t)
		t.setState(LoadStateFailed)

		return
	}

	t.tileset.Externals().TaskProcessor.StartTask(func() {
		t.decodeContent(response)
	})
}

// decodeContent runs on the worker pool: content decode, texture
// coordinate generation, and load-thread renderer prep.
func (t *Tile) decodeContent(response AssetResponse) {
	if t.State() == LoadStateDestroying {
		t.tileset.NotifyTileDoneLoading(t)
		t.setState(LoadStateFailed)

		return
	}

	content, err := CreateContent(ContentInput{
		Host:                  t.tileset,
		TileID:                t.id,
		BoundingVolume:        t.boundingVolume,
		GeometricError:        t.geometricError,
		Transform:             t.transform,
		ContentBoundingVolume: t.contentBoundingVolume,
		Refine:                t.refine,
		URL:                   t.contentRequest.URL(),
		ContentType:           response.ContentType(),
		Data:                  response.Data(),
	})
	if err != nil {
		// An undecodable payload becomes a blank tile rather than a
		// failed one; traversal will refine past it.
		slog.Debug("tile content decode failed", "url", t.contentRequest.URL(), "error", err)

		content = nil
	}

	t.content = content

	if t.State() == LoadStateDestroying {
		t.tileset.NotifyTileDoneLoading(t)
		t.setState(LoadStateFailed)

		return
	}

	if t.content == nil {
		// Blank tile: raise its geometric error so traversal refines past it.
		t.geometricError = unreachableGeometricError
	}

	if t.content != nil && t.content.Model != nil {
		t.generateTextureCoordinates()

		if prepare := t.tileset.Externals().PrepareRendererResources; prepare != nil {
			t.rendererResources = prepare.PrepareInLoadThread(t)
		} else {
			t.rendererResources = nil
		}
	}

	t.tileset.NotifyTileDoneLoading(t)
	t.setState(LoadStateContentLoaded)
}

// generateTextureCoordinates creates one texture coordinate set per
// distinct overlay projection and assigns each raster mapping the set
// matching its provider's projection.  IDs are dense, start at zero, and
// preserve first-encounter order.
func (t *Tile) generateTextureCoordinates() {
	if len(t.rasterTiles) == 0 {
		return
	}

	rectangle := boundingRectangle(t.boundingVolume)
	if rectangle == nil {
		return
	}

	var projections []geospatial.Projection

	projectionID := uint32(0)

	for i := range t.rasterTiles {
		mapped := &t.rasterTiles[i]
		projection := mapped.RasterTile().Provider().Projection()

		existing := -1

		for j, seen := range projections {
			if seen == projection {
				existing = j

				break
			}
		}

		if existing < 0 {
			projected := geospatial.ProjectRectangleSimple(projection, *rectangle)
			t.content.Model.CreateRasterOverlayTextureCoordinates(projectionID, projection, projected)
			projections = append(projections, projection)

			mapped.SetTextureCoordinateID(projectionID)
			projectionID++
		} else {
			mapped.SetTextureCoordinateID(uint32(existing))
		}
	}
}

// Update advances the tile on the main thread, once per frame.  It
// finishes renderer resource preparation for freshly loaded content and
// attaches raster overlays whose imagery has arrived.
func (t *Tile) Update() {
	externals := t.tileset.Externals()

	if t.State() == LoadStateContentLoaded {
		if externals.PrepareRendererResources != nil {
			t.rendererResources = externals.PrepareRendererResources.PrepareInMainThread(t, t.rendererResources)
		}

		if t.content != nil {
			// Apply children from content, but only if the tile does not
			// already have children.
			if len(t.content.ChildTiles) > 0 && len(t.children) == 0 {
				children := t.content.ChildTiles
				t.content.ChildTiles = nil

				for _, child := range children {
					child.parent = t
				}

				t.children = children
			}

			// A tile with content but no model renders nothing; raise its
			// geometric error so traversal refines past it.  Having no
			// model is different from having a blank model; the latter
			// happily renders nothing in the tile's space, which is
			// sometimes useful.
			if t.content.Model == nil {
				t.geometricError = unreachableGeometricError
			}

			if t.content.UpdatedBoundingVolume != nil {
				t.boundingVolume = t.content.UpdatedBoundingVolume
			}
		}

		// The request is complete; release it.
		t.contentRequest = nil

		t.setState(LoadStateDone)
	}

	if t.State() == LoadStateDone {
		for i := range t.rasterTiles {
			mapped := &t.rasterTiles[i]
			if mapped.State() != AttachmentStateUnattached {
				continue
			}

			rasterTile := mapped.RasterTile()
			if rasterTile.State() == RasterLoadStateLoading {
				continue
			}

			rasterTile.LoadInMainThread()
			mapped.AttachToTile(t)
		}
	}
}

// UnloadContent releases the tile's content and renderer resources and
// returns it to Unloaded.  Returns false while the asynchronous pipeline
// is in flight; unloading must be retried after the load settles.
func (t *Tile) UnloadContent() bool {
	switch t.State() {
	case LoadStateContentLoading:
		return false
	case LoadStateUnloaded:
		return true
	}

	externals := t.tileset.Externals()
	if externals.PrepareRendererResources != nil {
		if t.State() == LoadStateContentLoaded {
			// Main-thread prep never ran; the handle still belongs to the
			// load thread.
			externals.PrepareRendererResources.Free(t, t.rendererResources, nil)
		} else {
			externals.PrepareRendererResources.Free(t, nil, t.rendererResources)
		}
	}

	for i := range t.rasterTiles {
		t.rasterTiles[i].detachFromTile(t)
	}

	t.rendererResources = nil
	t.contentRequest = nil
	t.content = nil
	t.rasterTiles = nil
	t.setState(LoadStateUnloaded)

	return true
}
