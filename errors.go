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
	"errors"
)

var (
	// ErrChildrenAlreadyCreated is returned when a tile's children are
	// created a second time.
	ErrChildrenAlreadyCreated = errors.New("children already created")

	// ErrManifestRootMissing is returned when a tileset manifest carries
	// no root tile.
	ErrManifestRootMissing = errors.New("tileset manifest has no root tile")

	// ErrManifestBoundingVolume is returned when a manifest bounding
	// volume carries none of the known variants.
	ErrManifestBoundingVolume = errors.New("unrecognized bounding volume")
)
