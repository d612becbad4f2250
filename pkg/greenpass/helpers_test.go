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
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/sigstore/greenpass-verifier/pkg/pubkey"
	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"github.com/sigstore/sigstore/pkg/signature"
	"github.com/stretchr/testify/require"
)

// testIssuer signs payloads the way pass issuers do: PKCS#1 v1.5 with
// SHA-256 over the SHA-256 digest of the JSON text.
type testIssuer struct {
	priv   *rsa.PrivateKey
	key    *pubkey.PublicKey
	signer *signature.RSAPKCS1v15Signer
}

func newTestIssuer(t *testing.T, bits int) *testIssuer {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	signer, err := signature.LoadRSAPKCS1v15Signer(priv, crypto.SHA256)
	require.NoError(t, err)
	pemBytes, err := cryptoutils.MarshalPublicKeyToPEM(&priv.PublicKey)
	require.NoError(t, err)
	key, err := pubkey.Parse(bytes.NewReader(pemBytes))
	require.NoError(t, err)
	return &testIssuer{priv: priv, key: key, signer: signer}
}

func (ti *testIssuer) signature(t *testing.T, payload []byte) []byte {
	t.Helper()
	digest := sha256.Sum256(payload)
	sig, err := ti.signer.SignMessage(bytes.NewReader(digest[:]))
	require.NoError(t, err)
	return sig
}

// blob returns a QR payload for payload signed by the issuer.
func (ti *testIssuer) blob(t *testing.T, payload string) []byte {
	t.Helper()
	return joinBlob(ti.signature(t, []byte(payload)), []byte(payload))
}

func joinBlob(sig, payload []byte) []byte {
	out := []byte(base64.StdEncoding.EncodeToString(sig))
	out = append(out, Delimiter)
	return append(out, payload...)
}
