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
	"crypto"
	"errors"
	"fmt"

	"github.com/sigstore/greenpass-verifier/pkg/algorithmregistry"
	"github.com/sigstore/greenpass-verifier/pkg/pubkey"
	"github.com/sigstore/sigstore/pkg/signature"
)

// Verifier checks QR payload signatures against a single issuer key. It holds
// no mutable state and may be shared between goroutines.
type Verifier struct {
	key      *pubkey.PublicKey
	verifier *signature.RSAPKCS1v15Verifier
}

type verifierConfig struct {
	algorithmRegistry *signature.AlgorithmRegistryConfig
}

type Option func(*verifierConfig)

// WithAlgorithmRegistry rejects issuer keys that the registry does not permit.
func WithAlgorithmRegistry(algorithmRegistry *signature.AlgorithmRegistryConfig) Option {
	return func(vc *verifierConfig) {
		vc.algorithmRegistry = algorithmRegistry
	}
}

// NewVerifier returns a Verifier for RSA PKCS#1 v1.5 signatures with SHA-256.
func NewVerifier(key *pubkey.PublicKey, opts ...Option) (*Verifier, error) {
	if key == nil || key.RSA() == nil {
		return nil, errors.New("public key is nil")
	}
	vc := &verifierConfig{}
	for _, o := range opts {
		o(vc)
	}
	if vc.algorithmRegistry != nil {
		permitted, err := algorithmregistry.CheckKeyAlgorithm(key.PublicKey(), crypto.SHA256, vc.algorithmRegistry)
		if err != nil {
			return nil, err
		}
		if !permitted {
			return nil, fmt.Errorf("unsupported key algorithm: RSA-%d with SHA-256 is not allowed", key.RSA().N.BitLen())
		}
	}
	v, err := signature.LoadRSAPKCS1v15Verifier(key.RSA(), crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("loading verifier: %w", err)
	}
	return &Verifier{key: key, verifier: v}, nil
}

// Verify checks the signature of a QR payload and, only once it holds,
// parses the signed JSON into a Certificate.
func (v *Verifier) Verify(blob []byte) (Certificate, error) {
	sig, payload, err := Split(blob)
	if err != nil {
		return nil, err
	}
	digest, err := Digest(payload)
	if err != nil {
		return nil, err
	}
	// The issuer signs the digest itself, so it is hashed once more here.
	if err := v.verifier.VerifySignature(bytes.NewReader(sig), bytes.NewReader(digest)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return ParseCertificate(payload)
}

// PublicKey returns the issuer key used by the verifier.
func (v *Verifier) PublicKey() *pubkey.PublicKey {
	return v.key
}

// VerifyBlob verifies a single QR payload against key.
func VerifyBlob(blob []byte, key *pubkey.PublicKey) (Certificate, error) {
	v, err := NewVerifier(key)
	if err != nil {
		return nil, err
	}
	return v.Verify(blob)
}
