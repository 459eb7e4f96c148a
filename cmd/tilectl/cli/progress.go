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

// Package cli holds helpers shared by tilectl commands.
package cli

import (
	"fmt"
	"os"

	humanize "github.com/dustin/go-humanize"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// FetchProgress is a terminal meter for a prefetch pass over a tileset: a
// bar across the tiles that have settled (Done, Failed, or Unloaded),
// annotated with the content bytes admitted to the cache so far.
type FetchProgress struct {
	bar *pb.ProgressBar
}

// NewFetchProgress starts a meter over the given number of tiles.
func NewFetchProgress(tiles int) *FetchProgress {
	bar := pb.New(tiles).SetWidth(79)
	bar.Output = os.Stderr
	bar.ShowCounters = true
	bar.Start()

	return &FetchProgress{bar: bar}
}

// Observe moves the meter to the number of settled tiles and the bytes
// fetched for them.  Called once per pump of the update loop.
func (p *FetchProgress) Observe(settled int, bytes int64) {
	p.bar.Set(settled)
	p.bar.Postfix(fmt.Sprintf(" %s", humanize.Bytes(uint64(bytes))))
}

// Done finishes the meter and clears the terminal line of progress output.
func (p *FetchProgress) Done() {
	// make sure newline is not printed by Finish()
	p.bar.Output = nil
	p.bar.NotPrint = true

	p.bar.Finish()

	fmt.Fprintf(os.Stderr, "\033[2K\r") // clear status bar
}
