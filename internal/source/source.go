// Copyright 2026 The Sigstore Authors
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


// Package source obtains raw QR payloads, either by decoding a QR code in an
// image or by reading text that was already decoded.
package source

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sigstore/greenpass-verifier/pkg/greenpass"
)

// Source supplies the raw bytes of one QR payload.
type Source interface {
	Read() ([]byte, error)
}

// New returns the Source for exactly one of imagePath and textPath.
func New(imagePath, textPath string) (Source, error) {
	switch {
	case imagePath != "" && textPath != "":
		return nil, fmt.Errorf("%w: image path and text path are mutually exclusive", greenpass.ErrInputAcquisition)
	case imagePath != "":
		return ImageFile{Path: imagePath}, nil
	case textPath != "":
		return TextFile{Path: textPath}, nil
	default:
		return nil, fmt.Errorf("%w: one of image path or text path is required", greenpass.ErrInputAcquisition)
	}
}

// TextFile is a file holding decoded QR text. Surrounding whitespace is dropped.
type TextFile struct {
	Path string
}

func (s TextFile) Read() ([]byte, error) {
	b, err := os.ReadFile(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", greenpass.ErrInputAcquisition, err)
	}
	slog.Debug("read decoded QR text", "path", s.Path, "size", len(b))
	return bytes.TrimSpace(b), nil
}
