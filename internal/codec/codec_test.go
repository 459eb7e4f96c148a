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

package codec_test

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtomQu/cesium-native/internal/codec"
)

var payload = bytes.Repeat([]byte("streaming tile content "), 100)

func packGzip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func packZlib(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func packZstd(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer

	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func packLz4(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestUnpack(t *testing.T) {
	test_cases := []struct {
		name string
		pack func(t *testing.T) []byte
	}{
		{"gzip", packGzip},
		{"zlib", packZlib},
		{"zstd", packZstd},
		{"lz4", packLz4},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := codec.Unpack(tc.pack(t))
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestUnpackPassesRawThrough(t *testing.T) {
	raw := []byte("b3dm\x01\x00\x00\x00 raw tile payload")

	out, err := codec.Unpack(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestUnpackRejectsCorruptStream(t *testing.T) {
	corrupt := append(packGzip(t)[:8], 0xff, 0xfe, 0xfd)

	_, err := codec.Unpack(corrupt)
	assert.Error(t, err)
}
