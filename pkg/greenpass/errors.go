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

import "errors"

var (
	// ErrInputAcquisition reports that no QR payload could be obtained.
	ErrInputAcquisition = errors.New("reading QR payload")
	// ErrMalformedInput reports a payload that is not <base64>#<json>.
	ErrMalformedInput = errors.New("malformed QR payload")
	// ErrSignatureInvalid reports a failed signature check. It is always fatal.
	ErrSignatureInvalid = errors.New("invalid signature")
	// ErrSchema reports a required field that is absent or wrongly typed for the certificate type.
	ErrSchema = errors.New("malformed payload for declared certificate type")
)
