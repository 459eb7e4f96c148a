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
)

// AssetResponse is a completed HTTP-like response.
type AssetResponse interface {
	// StatusCode returns the HTTP-like status; [200, 300) is success.
	StatusCode() int

	// ContentType returns the response content type, possibly empty.
	ContentType() string

	// Data returns the payload bytes.
	Data() []byte
}

// AssetRequest is an in-flight request for tile content.
type AssetRequest interface {
	// Bind registers the one-shot completion callback.  If the request
	// has already completed, the callback is invoked immediately.  The
	// callback runs on the accessor's I/O context.
	Bind(callback func(AssetRequest))

	// Cancel aborts the request on a best-effort basis; the completion
	// callback may still be delivered.
	Cancel()

	// URL returns the requested URL.
	URL() string

	// Response returns the response, or nil before completion or when no
	// response was delivered at all.
	Response() AssetResponse
}

// AssetAccessor issues asset requests.
type AssetAccessor interface {
	// RequestAsset starts an asynchronous request for the given URL.
	RequestAsset(ctx context.Context, url string) AssetRequest
}

// TaskProcessor schedules work on a background pool.  There are no
// ordering guarantees between tasks.
type TaskProcessor interface {
	StartTask(task func())
}

// PrepareRendererResources adapts decoded tile content into renderer
// resources.  Preparation happens in two phases: PrepareInLoadThread runs
// on a background worker, PrepareInMainThread on the render thread.  Free
// receives the surviving handle in the slot matching the phase that
// produced it; the other slot is nil.
type PrepareRendererResources interface {
	// PrepareInLoadThread does the background portion of resource
	// creation and returns an opaque handle, which may be nil.
	PrepareInLoadThread(tile *Tile) any

	// PrepareInMainThread finishes resource creation on the main thread,
	// consuming the load-thread handle and returning the final handle.
	PrepareInMainThread(tile *Tile, loadThreadResult any) any

	// Free releases the tile's renderer resources.  Exactly one of
	// loadThreadResult and mainThreadResult is non-nil when the tile ever
	// held resources.
	Free(tile *Tile, loadThreadResult any, mainThreadResult any)
}

// TilesetExternals bundles the host-application services a tileset needs.
type TilesetExternals struct {
	AssetAccessor            AssetAccessor
	TaskProcessor            TaskProcessor
	PrepareRendererResources PrepareRendererResources
}

// TilesetHost is the surface of the tileset a tile interacts with during
// its lifecycle.
type TilesetHost interface {
	// RequestTileContent issues the content request for a tile, or
	// returns nil when the tile has no content of its own.
	RequestTileContent(tile *Tile) AssetRequest

	// NotifyTileDoneLoading reports that a tile has reached a terminal
	// load state.  Called exactly once per load that left Unloaded, from
	// whichever context set the terminal state.
	NotifyTileDoneLoading(tile *Tile)

	// Overlays returns the raster overlays draped over this tileset.
	Overlays() *RasterOverlayCollection

	// Externals returns the host-application services.
	Externals() *TilesetExternals
}
