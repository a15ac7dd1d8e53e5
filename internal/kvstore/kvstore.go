// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kvstore provides a small file-backed string key/value store used
// as the durable mirror for session state. The whole key set is replaced on
// every write via temp-file-and-rename, so readers never observe a partial
// write.
package kvstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// File is a key/value store persisted as a single JSON object on disk.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store backed by the file at path. The file is created on
// first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// ReadAll returns every stored key. A missing file reads as an empty set.
func (f *File) ReadAll(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read kv file")
	}
	kv := map[string]string{}
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, errors.Wrap(err, "decode kv file")
	}
	return kv, nil
}

// WriteAll atomically replaces the stored key set with kv.
func (f *File) WriteAll(ctx context.Context, kv map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(kv)
	if err != nil {
		return errors.Wrap(err, "encode kv file")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "create kv dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp kv file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp kv file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp kv file")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(err, "replace kv file")
	}
	return nil
}

// Clear removes every stored key. Clearing an absent file is a no-op.
func (f *File) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove kv file")
	}
	return nil
}
