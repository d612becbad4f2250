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
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	validSignatureLine  = "Valid signature!"
	unsupportedTypeLine = "Unsupported certificate type"
)

// Lines formats a verified certificate for display. The first line always
// states that the signature is valid.
func Lines(c Certificate) []string {
	lines := []string{validSignatureLine}
	switch cert := c.(type) {
	case *GroupCertificate:
		for i, p := range cert.People {
			lines = append(lines,
				fmt.Sprintf("Details of person number %d:", i+1),
				"\tIsraeli ID Number "+p.IDNumber,
				"\tID valid by "+p.Expiry,
			)
		}
		lines = append(lines, "Cert Unique ID "+cert.ID)
	case *PersonCertificate:
		lines = append(lines,
			"Israeli ID Number "+cert.IDNumber,
			"ID valid by "+cert.Expiry,
			"Cert Unique ID "+cert.ID,
		)
	default:
		lines = append(lines, unsupportedTypeLine)
	}
	return lines
}

// Render writes Lines(c) to w in a single write.
func Render(w io.Writer, c Certificate) error {
	if c == nil {
		return errors.New("nothing to render: certificate is nil")
	}
	var b strings.Builder
	for _, l := range Lines(c) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
