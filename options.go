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

const (
	// DefaultMaximumCachedBytes is the default budget for content kept
	// loaded beyond what the current view needs.
	DefaultMaximumCachedBytes = 512 * 1024 * 1024
)

// tilesetOptions provides optional configuration parameters for Tileset
// construction.
type tilesetOptions struct {
	maximumCachedBytes int64  // byte budget for the loaded-tile cache
	baseURL            string // base URL tile content URLs resolve against
	contentTemplate    string // URL template for quadtree tile IDs
}

// TilesetOption configures how we set up the tileset.
type TilesetOption func(*tilesetOptions)

// WithMaximumCachedBytes lets you set the byte budget for the loaded-tile
// cache.
func WithMaximumCachedBytes(n int64) TilesetOption {
	return func(o *tilesetOptions) {
		o.maximumCachedBytes = n
	}
}

// WithBaseURL lets you set the base URL relative tile content URLs resolve
// against.
func WithBaseURL(url string) TilesetOption {
	return func(o *tilesetOptions) {
		o.baseURL = url
	}
}

// WithContentTemplate lets you set the URL template expanded for quadtree
// tile IDs.  The placeholders {z}, {x}, and {y} are replaced with the
// tile's level and coordinates.
func WithContentTemplate(template string) TilesetOption {
	return func(o *tilesetOptions) {
		o.contentTemplate = template
	}
}

// defaultTilesetOptions provides a default configuration for tilesets.
var defaultTilesetOptions = tilesetOptions{
	maximumCachedBytes: DefaultMaximumCachedBytes,
}
