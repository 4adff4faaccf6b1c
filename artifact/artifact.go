//  Copyright (c) 2023 Uber Technologies, Inc.
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

// Package artifact persists preprocessed variants across process and cache
// boundaries. A VariantSet is the configuration-to-text mapping of one
// translation unit, serialized as gob framed through an s2 stream so large
// variant collections stay cheap to ship.
package artifact

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"go.uber.org/preproc/util/orderedmap"
)

// A VariantSet holds the preprocessed text of every enumerated
// configuration, in enumeration order. The unguarded configuration "" is
// conventionally the first entry.
type VariantSet struct {
	variants *orderedmap.OrderedMap[string, string]
}

// New returns an empty VariantSet.
func New() *VariantSet {
	return &VariantSet{variants: orderedmap.New[string, string]()}
}

// Add stores the preprocessed text for a configuration. Adding a
// configuration again overwrites its text but keeps its position.
func (s *VariantSet) Add(cfg, text string) {
	s.variants.Store(cfg, text)
}

// Get returns the text stored for a configuration and whether it is
// present.
func (s *VariantSet) Get(cfg string) (string, bool) {
	return s.variants.Load(cfg)
}

// Len returns the number of stored configurations.
func (s *VariantSet) Len() int {
	return s.variants.Len()
}

// Configurations returns the stored configuration strings in enumeration
// order. The returned slice is shared with the set and must not be
// modified.
func (s *VariantSet) Configurations() []string {
	return s.variants.Keys()
}

// OrderedRange calls f for each configuration and its text in enumeration
// order. If f returns false, iteration stops.
func (s *VariantSet) OrderedRange(f func(cfg, text string) bool) {
	s.variants.OrderedRange(f)
}

// Encode writes the set to w as an s2-compressed gob stream.
func (s *VariantSet) Encode(w io.Writer) (err error) {
	writer := s2.NewWriter(w)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := gob.NewEncoder(writer).Encode(s.variants); err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}
	return nil
}

// Decode replaces the set's contents with the stream previously written by
// Encode.
func (s *VariantSet) Decode(r io.Reader) error {
	variants := orderedmap.New[string, string]()
	if err := gob.NewDecoder(s2.NewReader(r)).Decode(variants); err != nil {
		return fmt.Errorf("decode variants: %w", err)
	}
	s.variants = variants
	return nil
}

// GobEncode encodes the set in the same s2-framed form as Encode, so a
// VariantSet nests inside larger gob payloads.
func (s *VariantSet) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode decodes a buffer produced by GobEncode.
func (s *VariantSet) GobDecode(b []byte) error {
	return s.Decode(bytes.NewReader(b))
}
