package service

import (
	"time"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
)

// TokenEnhancer adds user_id and iat to an access token's claims. It runs
// last before signing, so the iat it writes is the one that is signed.
type TokenEnhancer struct {
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Enhance never fails. A nil principal, or one without an identifier,
// only gets iat.
func (e *TokenEnhancer) Enhance(claims *jwtx.ClaimSet, principal domain.Principal) {
	if p, ok := principal.(domain.IdentifiedPrincipal); ok {
		if id := p.PrincipalID(); id != "" {
			claims.Set(jwtx.ClaimUserID, id)
		}
	}
	claims.Set(jwtx.ClaimIssuedAt, e.now().Unix())
}

func (e *TokenEnhancer) now() time.Time {
	if e == nil || e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}
