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

package cli

import (
	"fmt"
	"strings"

	"github.com/sigstore/greenpass-verifier/pkg/algorithmregistry"
	"github.com/sigstore/greenpass-verifier/pkg/pubkey"
	"github.com/spf13/cobra"
)

// Initialize adds the flags of the verify command
func Initialize(verifyCmd *cobra.Command) error {
	// input, exactly one of
	verifyCmd.Flags().StringP("image-path", "i", "", "path to an image with the QR code")
	verifyCmd.Flags().StringP("txt-path", "t", "", "path to decoded QR code textual content")
	verifyCmd.MarkFlagsMutuallyExclusive("image-path", "txt-path")
	verifyCmd.MarkFlagsOneRequired("image-path", "txt-path")

	// issuer key
	verifyCmd.Flags().String("public-key", pubkey.DefaultPath(), "path to the PEM-encoded public key or certificate of the pass issuer")
	keyAlgorithmTypes, err := algorithmregistry.DefaultKeyAlgorithms()
	if err != nil {
		return err
	}
	keyAlgorithmHelp := fmt.Sprintf("issuer key algorithms to accept (allowed %s)", strings.Join(keyAlgorithmTypes, ", "))
	verifyCmd.Flags().StringSlice("key-algorithms", keyAlgorithmTypes, keyAlgorithmHelp)

	verifyCmd.PersistentFlags().String("log-level", "warn", "log level for the process. options are [debug, info, warn, error]")

	return nil
}
