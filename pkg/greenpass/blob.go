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

package greenpass

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Delimiter separates the base64 signature from the signed JSON text.
const Delimiter = '#'

// Split cuts a QR payload on the first Delimiter and returns the decoded
// signature and the signed payload bytes.
func Split(blob []byte) ([]byte, []byte, error) {
	b64, payload, found := bytes.Cut(blob, []byte{Delimiter})
	if !found {
		return nil, nil, fmt.Errorf("%w: missing %q delimiter", ErrMalformedInput, Delimiter)
	}
	sig, err := decodeSignature(b64)
	if err != nil {
		return nil, nil, err
	}
	return sig, payload, nil
}

// decodeSignature accepts standard base64, with or without line breaks.
func decodeSignature(b64 []byte) ([]byte, error) {
	b64 = bytes.TrimSpace(b64)
	if len(b64) == 0 {
		return nil, fmt.Errorf("%w: empty signature", ErrMalformedInput)
	}
	sig := make([]byte, base64.StdEncoding.DecodedLen(len(b64)))
	n, err := base64.StdEncoding.Decode(sig, b64)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding signature: %v", ErrMalformedInput, err)
	}
	return sig[:n], nil
}

// Digest returns the SHA-256 digest of the payload text. The payload must be
// valid UTF-8, in which case its UTF-8 encoding is the payload itself.
func Digest(payload []byte) ([]byte, error) {
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformedInput)
	}
	digest := sha256.Sum256(payload)
	return digest[:], nil
}
