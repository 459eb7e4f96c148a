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

package cesium_test

import (
	cesium "github.com/AtomQu/cesium-native"
	"github.com/AtomQu/cesium-native/geometry"
	"github.com/AtomQu/cesium-native/geospatial"
)

// currentLoader is consulted by the loader registered for the
// "test/content" content type.  Tests in this package run sequentially.
var currentLoader cesium.ContentLoader

func init() {
	cesium.RegisterContentLoader("test/content", nil, func(input cesium.ContentInput) (*cesium.TileContent, error) {
		return currentLoader(input)
	})
}

type mockResponse struct {
	statusCode  int
	contentType string
	data        []byte
}

func (r *mockResponse) StatusCode() int     { return r.statusCode }
func (r *mockResponse) ContentType() string { return r.contentType }
func (r *mockResponse) Data() []byte        { return r.data }

type mockRequest struct {
	url       string
	callback  func(cesium.AssetRequest)
	response  cesium.AssetResponse
	complete  bool
	cancelled bool
}

func (r *mockRequest) Bind(callback func(cesium.AssetRequest)) {
	if r.complete {
		callback(r)

		return
	}

	r.callback = callback
}
func (r *mockRequest) Cancel()                                 { r.cancelled = true }
func (r *mockRequest) URL() string                             { return r.url }
func (r *mockRequest) Response() cesium.AssetResponse          { return r.response }

// deliver completes the request on the calling goroutine, standing in for
// the I/O context.
func (r *mockRequest) deliver(response *mockResponse) {
	if response != nil {
		r.response = response
	}

	r.callback(r)
}

// inlineTaskProcessor runs tasks immediately on the caller's goroutine.
type inlineTaskProcessor struct{}

func (inlineTaskProcessor) StartTask(task func()) { task() }

// deferredTaskProcessor queues tasks for explicit draining, so tests can
// interleave main-thread work between scheduling and execution.
type deferredTaskProcessor struct {
	tasks []func()
}

func (p *deferredTaskProcessor) StartTask(task func()) { p.tasks = append(p.tasks, task) }

func (p *deferredTaskProcessor) drain() {
	tasks := p.tasks
	p.tasks = nil

	for _, task := range tasks {
		task()
	}
}

type freeCall struct {
	loadThreadResult any
	mainThreadResult any
}

type mockPrepare struct {
	loadCalls int
	mainCalls int
	frees     []freeCall

	loadHandle any
	mainHandle any
}

func (p *mockPrepare) PrepareInLoadThread(*cesium.Tile) any {
	p.loadCalls++

	return p.loadHandle
}

func (p *mockPrepare) PrepareInMainThread(_ *cesium.Tile, loadThreadResult any) any {
	p.mainCalls++

	if p.mainHandle != nil {
		return p.mainHandle
	}

	return loadThreadResult
}

func (p *mockPrepare) Free(_ *cesium.Tile, loadThreadResult, mainThreadResult any) {
	p.frees = append(p.frees, freeCall{
		loadThreadResult: loadThreadResult,
		mainThreadResult: mainThreadResult,
	})
}

// mockHost satisfies TilesetHost with a canned request per load.
type mockHost struct {
	externals cesium.TilesetExternals
	overlays  cesium.RasterOverlayCollection

	nextRequest  *mockRequest
	notifyCount  int
	requestCount int
}

func (h *mockHost) RequestTileContent(*cesium.Tile) cesium.AssetRequest {
	h.requestCount++

	if h.nextRequest == nil {
		return nil
	}

	request := h.nextRequest
	h.nextRequest = nil

	return request
}

func (h *mockHost) NotifyTileDoneLoading(*cesium.Tile)        { h.notifyCount++ }
func (h *mockHost) Overlays() *cesium.RasterOverlayCollection { return &h.overlays }
func (h *mockHost) Externals() *cesium.TilesetExternals       { return &h.externals }

// mockProvider produces one overlay tile mapping per call.
type mockProvider struct {
	projection geospatial.Projection
	tiles      []*cesium.RasterOverlayTile
}

func (p *mockProvider) Projection() geospatial.Projection { return p.projection }

func (p *mockProvider) MapRasterTilesToGeometryTile(rectangle geospatial.GlobeRectangle, _ float64, mapped []cesium.RasterMappedToTile) []cesium.RasterMappedToTile {
	tile := cesium.NewRasterOverlayTile(p, rectangle)
	tile.SetState(cesium.RasterLoadStateLoading)
	p.tiles = append(p.tiles, tile)

	return append(mapped, cesium.NewRasterMappedToTile(tile))
}

type texCoordCall struct {
	projectionID uint32
	projection   geospatial.Projection
	rectangle    geometry.Rectangle
}

// mockModel records texture coordinate generation requests.
type mockModel struct {
	calls []texCoordCall
}

func (m *mockModel) CreateRasterOverlayTextureCoordinates(projectionID uint32, projection geospatial.Projection, rectangle geometry.Rectangle) {
	m.calls = append(m.calls, texCoordCall{
		projectionID: projectionID,
		projection:   projection,
		rectangle:    rectangle,
	})
}

func regionVolume() cesium.BoundingVolume {
	return geospatial.BoundingRegion{
		Rectangle:     geospatial.GlobeRectangleFromDegrees(-10, -5, 10, 5),
		MinimumHeight: 0,
		MaximumHeight: 100,
	}
}

func modelLoader(model cesium.ContentModel) cesium.ContentLoader {
	return func(input cesium.ContentInput) (*cesium.TileContent, error) {
		return &cesium.TileContent{
			Model:    model,
			ByteSize: int64(len(input.Data)),
		}, nil
	}
}
