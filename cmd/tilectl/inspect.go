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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	cesium "github.com/AtomQu/cesium-native"
	"github.com/AtomQu/cesium-native/async"
	"github.com/AtomQu/cesium-native/cmd/tilectl/cli"
	_ "github.com/AtomQu/cesium-native/gltf"
	"github.com/AtomQu/cesium-native/network"
)

func init() {
	RootCmd.AddCommand(inspectCmd)

	flags := inspectCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.BoolP("fetch", "f", false, "fetch every tile's content through the load pipeline")
	flags.IntP("workers", "w", async.DefaultWorkers(), "number of decode workers for --fetch")
}

type tilesetInfo struct {
	Tiles          int     `json:"tiles"`
	ContentTiles   int     `json:"contentTiles"`
	MaxDepth       int     `json:"maxDepth"`
	MinError       float64 `json:"minGeometricError"`
	MaxError       float64 `json:"maxGeometricError"`
	Renderable     int     `json:"renderable,omitempty"`
	Failed         int     `json:"failed,omitempty"`
	FetchedBytes   int64   `json:"fetchedBytes,omitempty"`
	FetchedSeconds float64 `json:"fetchedSeconds,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <tileset.json|URL>",
	Short: "Print information about a 3D tileset",
	Long:  "Print information about a 3D tileset manifest, optionally loading every tile's content",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		fetch, err := flags.GetBool("fetch")
		if err != nil {
			log.Fatal(err)
		}

		workers, err := flags.GetInt("workers")
		if err != nil {
			log.Fatal(err)
		}

		manifest, base, err := readManifest(args[0])
		if err != nil {
			log.Fatal(err)
		}

		pool := async.NewPool(workers)
		defer pool.Close()

		externals := cesium.TilesetExternals{
			AssetAccessor: network.NewAccessor(nil),
			TaskProcessor: pool,
		}

		tileset := cesium.NewTileset(context.Background(), externals, cesium.WithBaseURL(base))
		if err := tileset.LoadRootFromJSON(manifest); err != nil {
			log.Fatal(err)
		}

		info := summarize(tileset)

		if fetch {
			runFetch(tileset, info)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}

		if jsonfmt {
			renderJSON(info)
		} else {
			renderTxt(info, fetch)
		}
	},
}

// readManifest loads the manifest bytes and derives the base URL tile
// content resolves against.
func readManifest(source string) ([]byte, string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("fetching %s: status %d", source, resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", err
		}

		return data, source, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, "", err
	}

	// Relative content URLs resolve against the manifest's own location.
	return data, source, nil
}

func summarize(tileset *cesium.Tileset) *tilesetInfo {
	info := &tilesetInfo{MinError: math.Inf(1), MaxError: math.Inf(-1)}

	var walk func(t *cesium.Tile, depth int)
	walk = func(t *cesium.Tile, depth int) {
		info.Tiles++
		info.MaxDepth = max(info.MaxDepth, depth)
		info.MinError = math.Min(info.MinError, t.GeometricError())
		info.MaxError = math.Max(info.MaxError, t.GeometricError())

		if id, ok := t.TileID().(cesium.URLTileID); ok && id != "" {
			info.ContentTiles++
		}

		for _, child := range t.Children() {
			walk(child, depth+1)
		}
	}

	walk(tileset.Root(), 0)

	return info
}

// runFetch drives every tile through the load pipeline, pumping Update on
// this goroutine the way a renderer pumps frames.
func runFetch(tileset *cesium.Tileset, info *tilesetInfo) {
	start := time.Now()

	var tiles []*cesium.Tile

	var walk func(t *cesium.Tile)
	walk = func(t *cesium.Tile) {
		tiles = append(tiles, t)
		t.LoadContent()

		for _, child := range t.Children() {
			walk(child)
		}
	}

	walk(tileset.Root())

	progress := cli.NewFetchProgress(len(tiles))

	settled := func(t *cesium.Tile) bool {
		return t.State() == cesium.LoadStateDone || t.State() == cesium.LoadStateFailed ||
			t.State() == cesium.LoadStateUnloaded
	}

	for {
		done := 0

		for _, t := range tiles {
			t.Update()
			tileset.MarkTileUsed(t)

			if settled(t) {
				done++
			}
		}

		progress.Observe(done, tileset.CachedBytes())

		if done == len(tiles) && tileset.LoadsInProgress() == 0 {
			break
		}

		time.Sleep(10 * time.Millisecond)
	}

	progress.Done()

	for _, t := range tiles {
		if t.IsRenderable() {
			info.Renderable++
		}

		if t.State() == cesium.LoadStateFailed {
			info.Failed++
		}
	}

	info.FetchedBytes = tileset.CachedBytes()
	info.FetchedSeconds = time.Since(start).Seconds()
}

func renderTxt(info *tilesetInfo, fetched bool) {
	fmt.Printf("Tiles:          %s\n", humanize.Comma(int64(info.Tiles)))
	fmt.Printf("Content tiles:  %s\n", humanize.Comma(int64(info.ContentTiles)))
	fmt.Printf("Max depth:      %d\n", info.MaxDepth)
	fmt.Printf("Geometric err:  %g .. %g\n", info.MinError, info.MaxError)

	if fetched {
		fmt.Printf("Renderable:     %s\n", humanize.Comma(int64(info.Renderable)))
		fmt.Printf("Failed:         %s\n", humanize.Comma(int64(info.Failed)))
		fmt.Printf("Fetched:        %s in %.1fs\n", humanize.Bytes(uint64(info.FetchedBytes)), info.FetchedSeconds)
	}
}

func renderJSON(info *tilesetInfo) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(info); err != nil {
		log.Fatal(err)
	}
}
