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

// LoadState is the lifecycle state of a tile's content.  The numeric order
// matters: states are compared with < and >= throughout the pipeline.
type LoadState int32

const (
	// LoadStateDestroying marks a tile that was destroyed while its
	// content was still loading.  The next pipeline stage that observes
	// this state terminates the load as failed.
	LoadStateDestroying LoadState = -2

	// LoadStateFailed marks content that could not be fetched or decoded.
	LoadStateFailed LoadState = -1

	// LoadStateUnloaded marks a tile with no content loaded.
	LoadStateUnloaded LoadState = 0

	// LoadStateContentLoading marks content with a fetch or decode in
	// flight.
	LoadStateContentLoading LoadState = 1

	// LoadStateContentLoaded marks content that is decoded and has
	// finished load-thread renderer prep, but not main-thread prep.
	LoadStateContentLoaded LoadState = 2

	// LoadStateDone marks fully prepared content.
	LoadStateDone LoadState = 3
)

func (s LoadState) String() string {
	switch s {
	case LoadStateDestroying:
		return "Destroying"
	case LoadStateFailed:
		return "Failed"
	case LoadStateUnloaded:
		return "Unloaded"
	case LoadStateContentLoading:
		return "ContentLoading"
	case LoadStateContentLoaded:
		return "ContentLoaded"
	case LoadStateDone:
		return "Done"
	default:
		return "Unknown"
	}
}
