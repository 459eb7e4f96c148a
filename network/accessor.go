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

// Package network implements the tile pipeline's asset accessor on
// net/http.  Each request runs on its own goroutine; the bound completion
// callback is the pipeline's I/O context.
package network

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	cesium "github.com/AtomQu/cesium-native"
	"github.com/AtomQu/cesium-native/internal/codec"
)

// Accessor issues HTTP requests for tile content.
type Accessor struct {
	client *http.Client
}

// NewAccessor creates an accessor on the given client; nil means
// http.DefaultClient.
func NewAccessor(client *http.Client) *Accessor {
	if client == nil {
		client = http.DefaultClient
	}

	return &Accessor{client: client}
}

// RequestAsset starts an asynchronous GET for the URL.
func (a *Accessor) RequestAsset(ctx context.Context, url string) cesium.AssetRequest {
	ctx, cancel := context.WithCancel(ctx)

	r := &Request{
		url:    url,
		cancel: cancel,
	}

	go r.run(ctx, a.client)

	return r
}

// Request is one in-flight asset request.
type Request struct {
	url    string
	cancel context.CancelFunc

	mu        sync.Mutex
	callback  func(cesium.AssetRequest)
	completed bool
	response  *Response
}

// run performs the fetch and delivers the one-shot completion.
func (r *Request) run(ctx context.Context, client *http.Client) {
	response := r.fetch(ctx, client)

	r.mu.Lock()
	r.completed = true
	r.response = response
	callback := r.callback
	r.mu.Unlock()

	if callback != nil {
		callback(r)
	}
}

func (r *Request) fetch(ctx context.Context, client *http.Client) *Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		slog.Debug("asset request build failed", "url", r.url, "error", err)

		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("asset request failed", "url", r.url, "error", err)

		return nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("asset response read failed", "url", r.url, "error", err)

		return nil
	}

	// Payloads may be compressed at the object level on top of whatever
	// the transport negotiated.
	if unpacked, err := codec.Unpack(data); err == nil {
		data = unpacked
	} else {
		slog.Debug("asset payload unpack failed", "url", r.url, "error", err)
	}

	return &Response{
		statusCode:  resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		data:        data,
	}
}

// Bind registers the one-shot completion callback.  If the request already
// completed, the callback runs immediately on the caller's goroutine.
func (r *Request) Bind(callback func(cesium.AssetRequest)) {
	r.mu.Lock()

	if r.completed {
		r.mu.Unlock()
		callback(r)

		return
	}

	r.callback = callback
	r.mu.Unlock()
}

// Cancel aborts the request.  The completion callback may still be
// delivered with a nil response.
func (r *Request) Cancel() {
	r.cancel()
}

// URL returns the requested URL.
func (r *Request) URL() string { return r.url }

// Response returns the response, or nil before completion or on transport
// failure.
func (r *Request) Response() cesium.AssetResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.response == nil {
		// Typed nil would make the interface non-nil.
		return nil
	}

	return r.response
}

// Response is a completed HTTP response.
type Response struct {
	statusCode  int
	contentType string
	data        []byte
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.statusCode }

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() string { return r.contentType }

// Data returns the payload, decompressed if it arrived object-compressed.
func (r *Response) Data() []byte { return r.data }
