//
// Copyright 2026 The Sigstore Authors.
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

package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sigstore/greenpass-verifier/internal/cli"
	"github.com/sigstore/greenpass-verifier/internal/source"
	"github.com/sigstore/greenpass-verifier/pkg/algorithmregistry"
	"github.com/sigstore/greenpass-verifier/pkg/greenpass"
	"github.com/sigstore/greenpass-verifier/pkg/pubkey"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"sigs.k8s.io/release-utils/version"
)

// NewRootCmd returns the greenpass-verifier command. Flags may also be set
// through GREENPASS_* environment variables, e.g. GREENPASS_PUBLIC_KEY.
func NewRootCmd() (*cobra.Command, error) {
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:   "greenpass-verifier",
		Short: "Verify the signature of a green pass QR code",
		Long: `Verify the issuer signature embedded in a green pass QR code and print the
signed identity and validity fields. The QR payload is read from an image or
from a file holding the already decoded text. Nothing is printed unless the
signature is valid.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogger(cmd.ErrOrStderr(), v.GetString("log-level"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return verify(cmd.OutOrStdout(), v)
		},
	}
	if err := cli.Initialize(rootCmd); err != nil {
		return nil, fmt.Errorf("initializing flags: %w", err)
	}

	v.SetEnvPrefix("greenpass")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(rootCmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return nil, err
	}

	rootCmd.AddCommand(version.Version())
	return rootCmd, nil
}

// Execute runs the command and exits non-zero on any failure.
// This is called by main.main().
func Execute() {
	rootCmd, err := NewRootCmd()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func initLogger(w io.Writer, level string) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log-level specified: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
	return nil
}

// verify loads the issuer key, reads the QR payload and prints the certificate
// only after its signature has been checked.
func verify(out io.Writer, v *viper.Viper) error {
	slog.Debug("starting greenpass-verifier", "version", version.GetVersionInfo())

	src, err := source.New(v.GetString("image-path"), v.GetString("txt-path"))
	if err != nil {
		return err
	}

	keyPath := v.GetString("public-key")
	key, err := pubkey.Load(keyPath)
	if err != nil {
		return fmt.Errorf("loading issuer key: %w", err)
	}
	if id, err := key.Identity(); err == nil {
		slog.Debug("loaded issuer key", "path", keyPath, "fingerprint", id.Fingerprint)
	}
	algorithmRegistry, err := algorithmregistry.AlgorithmRegistry(v.GetStringSlice("key-algorithms"))
	if err != nil {
		return fmt.Errorf("getting algorithm registry: %w", err)
	}
	verifier, err := greenpass.NewVerifier(key, greenpass.WithAlgorithmRegistry(algorithmRegistry))
	if err != nil {
		return fmt.Errorf("initializing verifier: %w", err)
	}

	blob, err := src.Read()
	if err != nil {
		return err
	}
	cert, err := verifier.Verify(blob)
	if err != nil {
		return err
	}
	slog.Info("verified pass", "certificate_type", cert.Type())
	return greenpass.Render(out, cert)
}
