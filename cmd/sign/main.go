// Command sign detaches-signs a raw provenance container with RSA-PSS and a
// timestamp authority (spec.md §4.8).
package main

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dlr-sp/provtool-go/internal/config"
	"github.com/dlr-sp/provtool-go/internal/provlog"
	"github.com/dlr-sp/provtool-go/internal/signer"
)

var (
	provFile        string
	privateKeyFile  string
	familyName      string
	givenName       string
	timestampServer string
)

func main() {
	root := &cobra.Command{
		Use:   "sign",
		Short: "Detached-sign a raw provenance container",
		RunE:  run,
	}
	root.Flags().StringVar(&provFile, "provfile", "", "raw (pre-signature) container file to sign")
	root.Flags().StringVar(&privateKeyFile, "private", "", "PEM-encoded RSA private key")
	root.Flags().StringVar(&familyName, "familyname", "", "signer's family name")
	root.Flags().StringVar(&givenName, "givenname", "", "signer's given name")
	root.Flags().StringVar(&timestampServer, "timestampserver", "", "RFC 3161 timestamp authority URL (default from PROVTOOL_TIMESTAMP_SERVER)")
	root.MarkFlagRequired("provfile")
	root.MarkFlagRequired("private")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if timestampServer == "" {
		timestampServer = cfg.TimestampServerURL
	}

	logger, err := provlog.New("sign", provlog.Config{FilePath: provlog.SignLog})
	if err != nil {
		return err
	}
	defer logger.Sync()

	rawProv, err := os.ReadFile(provFile)
	if err != nil {
		logger.Error("reading provfile failed", zap.Error(err))
		os.Exit(1)
	}

	key, err := loadRSAPrivateKey(privateKeyFile)
	if err != nil {
		logger.Error("loading private key failed", zap.Error(err))
		os.Exit(1)
	}

	tsa := signer.NewHTTPTimestampAuthority(timestampServer)
	result, err := signer.Sign(rawProv, familyName, givenName, key, tsa)
	if err != nil {
		logger.Error("signing failed", zap.Error(err))
		os.Exit(1)
	}

	dir := filepath.Dir(provFile)
	if err := os.WriteFile(filepath.Join(dir, result.CID+".prov"), result.SignedContainer, 0o644); err != nil {
		logger.Error("writing signed container failed", zap.Error(err))
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(dir, result.CID+".sig"), result.SignatureBytes, 0o644); err != nil {
		logger.Error("writing signature failed", zap.Error(err))
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(dir, result.CID+".tsr"), result.TimestampReply, 0o644); err != nil {
		logger.Error("writing timestamp reply failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("signed container", zap.String("cid", result.CID))
	fmt.Println(result.CID)
	return nil
}

func loadRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("sign: no PEM block found in %s", path)
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("sign: parse private key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sign: private key is not RSA")
	}
	return rsaKey, nil
}
