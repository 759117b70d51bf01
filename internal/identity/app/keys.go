package app

import (
	"fmt"
	"log/slog"

	"github.com/crewlink/identity/pkg/cryptox"
	"github.com/crewlink/identity/pkg/idx"
	"github.com/crewlink/identity/pkg/jwtx"
)

// initSessionKeys generates an ephemeral Ed25519 signing key. Keys live only
// in memory, so every session token is invalidated on restart.
func initSessionKeys(logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, fmt.Errorf("generate session key: %w", err)
	}

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("load session key: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	logger.Info("ephemeral session key generated", "kid", kid, "alg", signer.Alg())
	return signer, keys, nil
}
