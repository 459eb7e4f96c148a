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
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
)

// Tileset is the root manager of a tile tree.  It issues content requests,
// tracks loads in progress, owns the raster overlay collection, and evicts
// loaded content past its byte budget.
type Tileset struct {
	ctx       context.Context
	externals TilesetExternals
	overlays  RasterOverlayCollection
	opts      tilesetOptions

	root *Tile

	loadsInProgress atomic.Int32

	loadedTiles LoadedTileList
	cachedBytes int64
}

// NewTileset creates a tileset backed by the given external services.
func NewTileset(ctx context.Context, externals TilesetExternals, options ...TilesetOption) *Tileset {
	opts := defaultTilesetOptions
	for _, option := range options {
		option(&opts)
	}

	return &Tileset{
		ctx:       ctx,
		externals: externals,
		opts:      opts,
	}
}

// Root returns the root tile, or nil before a manifest is loaded.
func (ts *Tileset) Root() *Tile { return ts.root }

// Externals returns the host-application services.
func (ts *Tileset) Externals() *TilesetExternals { return &ts.externals }

// Overlays returns the raster overlays draped over this tileset.
func (ts *Tileset) Overlays() *RasterOverlayCollection { return &ts.overlays }

// LoadsInProgress returns the number of tile loads currently in flight.
func (ts *Tileset) LoadsInProgress() int { return int(ts.loadsInProgress.Load()) }

// LoadRootFromJSON parses a tileset manifest and installs its root tile.
func (ts *Tileset) LoadRootFromJSON(data []byte) error {
	root, err := parseTilesetManifest(ts, data)
	if err != nil {
		return err
	}

	ts.root = root

	return nil
}

// RequestTileContent issues the content request for a tile.  Tiles whose
// ID resolves to no URL are synthetic and get a nil request; the caller
// still owes a NotifyTileDoneLoading, so the in-progress count is bumped
// either way.
func (ts *Tileset) RequestTileContent(tile *Tile) AssetRequest {
	ts.loadsInProgress.Add(1)

	contentURL := ts.resolveContentURL(tile)
	if contentURL == "" {
		return nil
	}

	return ts.externals.AssetAccessor.RequestAsset(ts.ctx, contentURL)
}

// NotifyTileDoneLoading records that a tile load reached a terminal state.
func (ts *Tileset) NotifyTileDoneLoading(tile *Tile) {
	n := ts.loadsInProgress.Add(-1)
	slog.Debug("tile done loading", "id", tileIDString(tile.TileID()), "state", tile.State(), "inProgress", n)
}

// MarkTileUsed moves a tile to the most recently used end of the loaded
// cache, admitting it with its content size on first touch.  Main thread
// only; typically called by the traversal for every tile it visits.
func (ts *Tileset) MarkTileUsed(tile *Tile) {
	if !ts.loadedTiles.Contains(tile) {
		ts.cachedBytes += contentBytes(tile)
	}

	ts.loadedTiles.PushBack(tile)
}

// UnloadCachedTiles unloads least recently used tiles until the cache fits
// the configured byte budget.  Tiles that refuse to unload (their pipeline
// is still in flight) are left in place for a later pass.
func (ts *Tileset) UnloadCachedTiles() {
	tile := ts.loadedTiles.Front()

	for tile != nil && ts.cachedBytes > ts.opts.maximumCachedBytes {
		next := ts.loadedTiles.Next(tile)

		size := contentBytes(tile)
		if tile.UnloadContent() {
			ts.loadedTiles.Remove(tile)
			ts.cachedBytes -= size
		}

		tile = next
	}
}

// CachedBytes returns the bytes currently admitted to the loaded cache.
func (ts *Tileset) CachedBytes() int64 { return ts.cachedBytes }

func contentBytes(tile *Tile) int64 {
	if content := tile.Content(); content != nil {
		return content.ByteSize
	}

	return 0
}

func tileIDString(id TileID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

// resolveContentURL maps a tile's ID to the URL its content is fetched
// from, or "" when the tile has no content of its own.
func (ts *Tileset) resolveContentURL(tile *Tile) string {
	switch id := tile.TileID().(type) {
	case URLTileID:
		if id == "" {
			return ""
		}

		return ts.resolveAgainstBase(string(id))
	case QuadtreeTileID:
		if ts.opts.contentTemplate == "" {
			return ""
		}

		expanded := strings.NewReplacer(
			"{z}", strconv.FormatUint(uint64(id.Level), 10),
			"{x}", strconv.FormatUint(uint64(id.X), 10),
			"{y}", strconv.FormatUint(uint64(id.Y), 10),
		).Replace(ts.opts.contentTemplate)

		return ts.resolveAgainstBase(expanded)
	default:
		return ""
	}
}

func (ts *Tileset) resolveAgainstBase(ref string) string {
	if ts.opts.baseURL == "" {
		return ref
	}

	base, err := url.Parse(ts.opts.baseURL)
	if err != nil {
		return ref
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return base.ResolveReference(parsed).String()
}
