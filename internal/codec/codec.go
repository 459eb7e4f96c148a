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

// Package codec inflates tile content payloads.  Tile servers are free to
// hand back payloads compressed at the object level rather than the
// transport level; the compression is identified by sniffing the leading
// magic bytes.  Unrecognized payloads pass through untouched.
package codec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"

	"github.com/AtomQu/cesium-native/internal/core"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLz4  = []byte{0x04, 0x22, 0x4d, 0x18}
	magicXz   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Unpack uncompresses a payload whose leading bytes identify a known
// compression container.  Payloads with no recognized magic are returned
// as-is with no error.
func Unpack(data []byte) ([]byte, error) {
	var factory func(data []byte) (io.Reader, error)

	switch {
	case bytes.HasPrefix(data, magicGzip):
		factory = func(data []byte) (io.Reader, error) {
			return gzip.NewReader(bytes.NewReader(data))
		}
	case bytes.HasPrefix(data, magicZstd):
		factory = func(data []byte) (io.Reader, error) {
			return zstd.NewReader(bytes.NewReader(data))
		}
	case bytes.HasPrefix(data, magicLz4):
		factory = func(data []byte) (io.Reader, error) {
			return lz4.NewReader(bytes.NewReader(data)), nil
		}
	case bytes.HasPrefix(data, magicXz):
		factory = func(data []byte) (io.Reader, error) {
			return xz.NewReader(bytes.NewReader(data))
		}
	case isZlib(data):
		factory = func(data []byte) (io.Reader, error) {
			return zlib.NewReader(bytes.NewReader(data))
		}
	default:
		return data, nil
	}

	rdr, err := factory(data)
	if err != nil {
		return nil, fmt.Errorf("unpacker factory error: %w", err)
	}

	buf := core.NewPooledBuffer()
	defer buf.Close()

	if _, err := buf.ReadFrom(rdr); err != nil {
		return nil, fmt.Errorf("unpacker read error: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// isZlib matches the RFC 1950 two-byte header: a deflate CMF byte followed
// by a flag byte that keeps CMF*256+FLG a multiple of 31.
func isZlib(data []byte) bool {
	if len(data) < 2 || data[0] != 0x78 {
		return false
	}

	return (uint16(data[0])<<8|uint16(data[1]))%31 == 0
}
