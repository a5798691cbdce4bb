package app

import (
	"crypto"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
)

// InitSigningKeys creates the KeyManager.
//
// Key sources:
//   - KeysDir set: every *.pem file in the directory is a signing key and
//     its file name without extension is the kid. Tokens survive restarts
//     and every replica sharing the directory verifies every token.
//   - KeysDir empty: NumKeys keys of Algorithm are generated in memory.
//     All existing tokens become invalid when the service restarts.
func InitSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		Audience:  nil, // aud varies per client, so it is not checked
		RSABits:   cfg.RSABits,
		NumKeys:   cfg.NumKeys,
	}

	if cfg.KeysDir != "" {
		keys, err := loadKeysDir(cfg.KeysDir)
		if err != nil {
			return nil, err
		}
		opts.Keys = keys

		km, err := jwtx.NewKeyManager(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize key manager: %w", err)
		}
		logger.Info("signing keys loaded", "dir", cfg.KeysDir, "num_keys", len(keys), "issuer", cfg.Issuer)
		return km, nil
	}

	km, err := jwtx.NewKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}
	logger.Info("generated ephemeral signing keys",
		"algorithm", cfg.Algorithm,
		"num_keys", km.KeySet().Len(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("ephemeral keys in use, tokens issued before this start are no longer valid")
	return km, nil
}

func loadKeysDir(dir string) (map[string]crypto.Signer, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pem"))
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.pem keys in %s", dir)
	}

	keys := make(map[string]crypto.Signer, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p) // #nosec G304 -- operator supplied dir
		if err != nil {
			return nil, fmt.Errorf("read key %s: %w", p, err)
		}
		key, err := cryptox.ParsePrivateKeyPEM(b)
		if err != nil {
			return nil, fmt.Errorf("parse key %s: %w", p, err)
		}
		keys[strings.TrimSuffix(filepath.Base(p), ".pem")] = key
	}
	return keys, nil
}
