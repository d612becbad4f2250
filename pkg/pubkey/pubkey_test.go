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
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	pkixDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	pkixPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkixDER})
	pkcs1PEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(&priv.PublicKey)})
	_, certDER := generateTestCertificate(t, priv)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	ecPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate ECDSA key: %v", err)
	}
	ecDER, err := x509.MarshalPKIXPublicKey(&ecPriv.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal ECDSA key: %v", err)
	}
	ecPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: ecDER})

	tests := []struct {
		name       string
		reader     io.Reader
		wantErr    bool
		wantErrMsg string
		wantCert   bool
	}{
		{
			name:   "PKIX public key",
			reader: bytes.NewReader(pkixPEM),
		},
		{
			name:   "PKCS1 public key",
			reader: bytes.NewReader(pkcs1PEM),
		},
		{
			name:     "certificate",
			reader:   bytes.NewReader(certPEM),
			wantCert: true,
		},
		{
			name:       "Nil Reader",
			reader:     nil,
			wantErr:    true,
			wantErrMsg: "public key reader is nil",
		},
		{
			name:       "not PEM",
			reader:     bytes.NewReader([]byte("this is not a public key")),
			wantErr:    true,
			wantErrMsg: "no PEM block found",
		},
		{
			name:       "Empty Reader",
			reader:     bytes.NewReader([]byte{}),
			wantErr:    true,
			wantErrMsg: "no PEM block found",
		},
		{
			name:       "corrupt DER",
			reader:     bytes.NewReader(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte("garbage")})),
			wantErr:    true,
			wantErrMsg: "parsing public key",
		},
		{
			name:       "ECDSA key",
			reader:     bytes.NewReader(ecPEM),
			wantErr:    true,
			wantErrMsg: "expected RSA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.reader)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if tt.wantErrMsg != "" && !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Errorf("Parse() error = %q, want error containing %q", err.Error(), tt.wantErrMsg)
				}
				if got != nil {
					t.Errorf("Parse() got = %v, want nil on error", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse() got nil, want non-nil")
			}
			if !got.RSA().Equal(&priv.PublicKey) {
				t.Errorf("Parse() key does not match the generated key")
			}
			if (got.Certificate() != nil) != tt.wantCert {
				t.Errorf("Parse() certificate = %v, want certificate %v", got.Certificate(), tt.wantCert)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	path := filepath.Join(t.TempDir(), DefaultKeyFile)
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.PublicKey(), &priv.PublicKey) {
		t.Errorf("Load() key mismatch")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.pem")); err == nil || !strings.Contains(err.Error(), "opening public key") {
		t.Errorf("Load() on missing file error = %v, want opening error", err)
	}
}

func TestPublicKey_String(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	verifier := &PublicKey{key: &priv.PublicKey}
	pemStr := verifier.String()

	if !strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----") {
		t.Errorf("String() output does not start with correct PEM header")
	}
	block, rest := pem.Decode([]byte(pemStr))
	if block == nil {
		t.Fatalf("Failed to decode PEM output from String()")
	}
	if len(rest) > 0 {
		t.Errorf("String() output contained trailing data after PEM block: %q", rest)
	}
	if block.Type != "PUBLIC KEY" {
		t.Errorf("String() output PEM block type mismatch: got %q, want %q", block.Type, "PUBLIC KEY")
	}
}

func TestPublicKey_Identity(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	pkixDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}

	id, err := PublicKey{key: &priv.PublicKey}.Identity()
	if err != nil {
		t.Fatalf("Identity() returned unexpected error: %v", err)
	}
	if !bytes.Equal(id.Raw, pkixDER) {
		t.Errorf("Identity Raw field mismatch. Got %d bytes, want %d bytes.", len(id.Raw), len(pkixDER))
	}
	expectedDigest := sha256.Sum256(pkixDER)
	if id.Fingerprint != hex.EncodeToString(expectedDigest[:]) {
		t.Errorf("Identity Fingerprint mismatch. Got: %s", id.Fingerprint)
	}

	cert, certDER := generateTestCertificate(t, priv)
	id, err = PublicKey{key: &priv.PublicKey, cert: cert}.Identity()
	if err != nil {
		t.Fatalf("Identity() returned unexpected error: %v", err)
	}
	if !bytes.Equal(id.Raw, certDER) {
		t.Errorf("Identity Raw field should hold the certificate DER")
	}
	certDigest := sha256.Sum256(certDER)
	if id.Fingerprint != hex.EncodeToString(certDigest[:]) {
		t.Errorf("Identity Fingerprint mismatch for certificate. Got: %s", id.Fingerprint)
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath()
	if filepath.Base(got) != DefaultKeyFile {
		t.Errorf("DefaultPath() = %q, want file %q", got, DefaultKeyFile)
	}
	if filepath.Base(filepath.Dir(got)) != "certs" {
		t.Errorf("DefaultPath() = %q, want a certs directory", got)
	}
}

// generateTestCertificate creates a self-signed certificate for priv and
// returns it along with its DER encoding.
func generateTestCertificate(t *testing.T, priv *rsa.PrivateKey) (*x509.Certificate, []byte) {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test issuer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert, der
}
