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
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(l *LoadedTileList) []*Tile {
	var out []*Tile

	for t := l.Front(); t != nil; t = l.Next(t) {
		out = append(out, t)
	}

	return out
}

func TestLoadedTileListOrdering(t *testing.T) {
	var list LoadedTileList

	a := &Tile{}
	b := &Tile{}
	c := &Tile{}

	list.PushBack(a)
	list.PushBack(b)
	list.PushBack(c)

	assert.Equal(t, 3, list.Size())
	assert.Equal(t, []*Tile{a, b, c}, collect(&list))

	// Re-pushing moves to the most recently used end.
	list.PushBack(a)
	assert.Equal(t, 3, list.Size())
	assert.Equal(t, []*Tile{b, c, a}, collect(&list))

	list.Remove(c)
	assert.Equal(t, 2, list.Size())
	assert.Equal(t, []*Tile{b, a}, collect(&list))
	assert.False(t, list.Contains(c))

	// Removing a tile that isn't linked is a no-op.
	list.Remove(c)
	assert.Equal(t, 2, list.Size())

	list.Remove(b)
	list.Remove(a)
	assert.Equal(t, 0, list.Size())
	assert.Nil(t, list.Front())
}

func TestLoadedTileListSingleElement(t *testing.T) {
	var list LoadedTileList

	a := &Tile{}

	list.PushBack(a)
	assert.True(t, list.Contains(a))

	list.Remove(a)
	assert.Nil(t, list.Front())
	assert.Equal(t, 0, list.Size())
}
