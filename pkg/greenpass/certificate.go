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
	"encoding/json"
	"fmt"
)

// CertificateType is the "ct" discriminant of a pass payload.
type CertificateType int

const (
	// GroupCertificateType covers several people under one certificate id.
	GroupCertificateType CertificateType = 1
	// PersonCertificateType covers a single person.
	PersonCertificateType CertificateType = 2
)

// Certificate is a verified pass payload. It is one of *GroupCertificate,
// *PersonCertificate or *UnsupportedCertificate.
type Certificate interface {
	Type() CertificateType
}

type Person struct {
	IDNumber string `json:"idl"`
	Expiry   string `json:"e"`
}

type GroupCertificate struct {
	ID     string   `json:"id"`
	People []Person `json:"p"`
}

func (*GroupCertificate) Type() CertificateType { return GroupCertificateType }

func (c *GroupCertificate) MarshalJSON() ([]byte, error) {
	type alias GroupCertificate
	return json.Marshal(struct {
		CT CertificateType `json:"ct"`
		*alias
	}{GroupCertificateType, (*alias)(c)})
}

type PersonCertificate struct {
	ID string `json:"id"`
	Person
}

func (*PersonCertificate) Type() CertificateType { return PersonCertificateType }

func (c *PersonCertificate) MarshalJSON() ([]byte, error) {
	type alias PersonCertificate
	return json.Marshal(struct {
		CT CertificateType `json:"ct"`
		*alias
	}{PersonCertificateType, (*alias)(c)})
}

// UnsupportedCertificate is a verified payload whose "ct" is neither 1 nor 2.
// None of its other fields are read.
type UnsupportedCertificate struct {
	// RawType is the "ct" value as it appeared in the payload.
	RawType json.RawMessage
}

// Type returns the declared type when it is an integer, and 0 otherwise.
func (c *UnsupportedCertificate) Type() CertificateType {
	ct, _ := certificateType(c.RawType)
	return ct
}

// ParseCertificate decodes signed JSON into the certificate variant selected by "ct".
func ParseCertificate(payload []byte) (Certificate, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedInput)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrSchema)
	}
	rawType, ok := fields["ct"]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrSchema, "ct")
	}
	ct, ok := certificateType(rawType)
	if !ok {
		return &UnsupportedCertificate{RawType: rawType}, nil
	}
	switch ct {
	case GroupCertificateType:
		return parseGroup(fields)
	case PersonCertificateType:
		return parsePerson(fields)
	default:
		return &UnsupportedCertificate{RawType: rawType}, nil
	}
}

// certificateType reads "ct" as an integral JSON number.
func certificateType(raw json.RawMessage) (CertificateType, bool) {
	var n float64
	if isNull(raw) || json.Unmarshal(raw, &n) != nil {
		return 0, false
	}
	if n != float64(int(n)) {
		return 0, false
	}
	return CertificateType(n), true
}

func parseGroup(fields map[string]json.RawMessage) (*GroupCertificate, error) {
	id, err := stringField(fields, "id", "id")
	if err != nil {
		return nil, err
	}
	rawPeople, ok := fields["p"]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrSchema, "p")
	}
	var people []map[string]json.RawMessage
	if isNull(rawPeople) || json.Unmarshal(rawPeople, &people) != nil {
		return nil, fmt.Errorf("%w: field %q must be an array of objects", ErrSchema, "p")
	}
	cert := &GroupCertificate{ID: id, People: make([]Person, 0, len(people))}
	for i, p := range people {
		person, err := parsePersonFields(p, fmt.Sprintf("p[%d].", i))
		if err != nil {
			return nil, err
		}
		cert.People = append(cert.People, person)
	}
	return cert, nil
}

func parsePerson(fields map[string]json.RawMessage) (*PersonCertificate, error) {
	id, err := stringField(fields, "id", "id")
	if err != nil {
		return nil, err
	}
	person, err := parsePersonFields(fields, "")
	if err != nil {
		return nil, err
	}
	return &PersonCertificate{ID: id, Person: person}, nil
}

func parsePersonFields(fields map[string]json.RawMessage, prefix string) (Person, error) {
	idNumber, err := stringField(fields, "idl", prefix+"idl")
	if err != nil {
		return Person{}, err
	}
	expiry, err := stringField(fields, "e", prefix+"e")
	if err != nil {
		return Person{}, err
	}
	return Person{IDNumber: idNumber, Expiry: expiry}, nil
}

// stringField returns fields[name] as a string; path names the field in errors.
func stringField(fields map[string]json.RawMessage, name, path string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrSchema, path)
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", fmt.Errorf("%w: field %q must be a string", ErrSchema, path)
	}
	return s, nil
}

// isNull reports a JSON null, which json.Unmarshal silently accepts for any type.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
