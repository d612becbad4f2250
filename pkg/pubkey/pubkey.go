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

package pubkey

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"go.step.sm/crypto/pemutil"
)

// DefaultKeyFile is the name of the issuer key shipped next to the binary.
const DefaultKeyFile = "RamzorQRPubKey.pem"

const pkcs1PublicKeyType = "RSA PUBLIC KEY"

// PublicKey is the RSA key of a pass issuer, optionally taken from an X.509 certificate.
type PublicKey struct {
	key  *rsa.PublicKey
	cert *x509.Certificate
}

// DefaultPath returns the location of the bundled issuer key, in a certs
// directory alongside the executable.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("certs", DefaultKeyFile)
	}
	return filepath.Join(filepath.Dir(exe), "certs", DefaultKeyFile)
}

// Load reads a PEM-encoded public key or certificate from path. The file is
// closed before Load returns.
func Load(path string) (*PublicKey, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening public key: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a PEM block holding a PKIX public key, a PKCS#1 RSA public key
// or an X.509 certificate.
func Parse(r io.Reader) (*PublicKey, error) {
	if r == nil {
		return nil, errors.New("public key reader is nil")
	}
	pemBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("parsing public key: no PEM block found")
	}

	var parsed any
	if block.Type == pkcs1PublicKeyType {
		parsed, err = x509.ParsePKCS1PublicKey(block.Bytes)
	} else {
		parsed, err = pemutil.Parse(pemBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %v", err)
	}

	pk := &PublicKey{}
	if cert, ok := parsed.(*x509.Certificate); ok {
		pk.cert = cert
		parsed = cert.PublicKey
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type %T, expected RSA", parsed)
	}
	pk.key = rsaKey
	return pk, nil
}

func (k PublicKey) String() string {
	encoded, err := cryptoutils.MarshalPublicKeyToPEM(k.key)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func (k PublicKey) PublicKey() crypto.PublicKey {
	return k.key
}

// RSA returns the typed key for signature verification.
func (k PublicKey) RSA() *rsa.PublicKey {
	return k.key
}

// Certificate returns the certificate the key was read from, or nil.
func (k PublicKey) Certificate() *x509.Certificate {
	return k.cert
}

// Identity fingerprints the certificate when there is one and the PKIX key otherwise.
func (k PublicKey) Identity() (Identity, error) {
	if k.cert != nil {
		digest := sha256.Sum256(k.cert.Raw)
		return Identity{
			Crypto:      k.cert,
			Raw:         k.cert.Raw,
			Fingerprint: hex.EncodeToString(digest[:]),
		}, nil
	}
	pkixKey, err := cryptoutils.MarshalPublicKeyToDER(k.key)
	if err != nil {
		return Identity{}, err
	}
	digest := sha256.Sum256(pkixKey)
	return Identity{
		Crypto:      k.key,
		Raw:         pkixKey,
		Fingerprint: hex.EncodeToString(digest[:]),
	}, nil
}
