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

package algorithmregistry

import (
	"crypto"
	"fmt"
	"slices"
	"sort"

	v1 "github.com/sigstore/protobuf-specs/gen/pb-go/common/v1"
	"github.com/sigstore/sigstore/pkg/signature"
)

var (
	// AllowedKeyAlgorithms is the default set of issuer key algorithms. Pass
	// signatures are always RSA PKCS#1 v1.5 over SHA-256, so only the key size varies.
	AllowedKeyAlgorithms = []v1.PublicKeyDetails{
		v1.PublicKeyDetails_PKIX_RSA_PKCS1V15_2048_SHA256,
		v1.PublicKeyDetails_PKIX_RSA_PKCS1V15_3072_SHA256,
		v1.PublicKeyDetails_PKIX_RSA_PKCS1V15_4096_SHA256,
	}
)

// AlgorithmRegistry accepts a list of algorithms as strings, parses and formats them into a registry.
func AlgorithmRegistry(algorithmOptions []string) (*signature.AlgorithmRegistryConfig, error) {
	var algorithms []v1.PublicKeyDetails
	if algorithmOptions == nil {
		algorithms = AllowedKeyAlgorithms
	} else {
		for _, a := range algorithmOptions {
			algorithm, err := signature.ParseSignatureAlgorithmFlag(a)
			if err != nil {
				return nil, fmt.Errorf("parsing signature algorithm flag: %w", err)
			}
			if !slices.Contains(AllowedKeyAlgorithms, algorithm) {
				return nil, fmt.Errorf("algorithm %s cannot verify pass signatures", a)
			}
			algorithms = append(algorithms, algorithm)
		}
	}
	if len(algorithms) == 0 {
		return nil, fmt.Errorf("no key algorithms allowed")
	}
	algorithmRegistry, err := signature.NewAlgorithmRegistryConfig(algorithms)
	if err != nil {
		return nil, fmt.Errorf("getting algorithm registry: %w", err)
	}
	return algorithmRegistry, nil
}

// CheckKeyAlgorithm checks that the combination of issuer public key and
// message digest algorithm is allowed given an algorithm registry.
func CheckKeyAlgorithm(pubKey crypto.PublicKey, alg crypto.Hash, algorithmRegistry *signature.AlgorithmRegistryConfig) (bool, error) {
	isPermitted, err := algorithmRegistry.IsAlgorithmPermitted(pubKey, alg)
	if err != nil {
		return false, fmt.Errorf("checking if algorithm is permitted: %w", err)
	}
	return isPermitted, nil
}

// DefaultKeyAlgorithms returns the flag names of AllowedKeyAlgorithms, sorted.
func DefaultKeyAlgorithms() ([]string, error) {
	keyAlgorithmTypes := []string{}
	for _, keyAlgorithm := range AllowedKeyAlgorithms {
		keyFlag, err := signature.FormatSignatureAlgorithmFlag(keyAlgorithm)
		if err != nil {
			return nil, err
		}
		keyAlgorithmTypes = append(keyAlgorithmTypes, keyFlag)
	}
	sort.Strings(keyAlgorithmTypes)
	return keyAlgorithmTypes, nil
}
