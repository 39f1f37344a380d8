package merchantauth

import "github.com/MrEthical07/merchantauth/jwt"

// JWTVerifier adapts a [jwt.Manager] to [TokenVerifier].
type JWTVerifier struct {
	manager *jwt.Manager
}

// NewJWTVerifier wraps m.
func NewJWTVerifier(m *jwt.Manager) *JWTVerifier {
	return &JWTVerifier{manager: m}
}

// VerifyToken parses and validates token and maps its claims.
func (v *JWTVerifier) VerifyToken(token string) (TokenClaim, error) {
	claims, err := v.manager.ParseAccess(token)
	if err != nil {
		return TokenClaim{}, err
	}
	return TokenClaim{
		UserID:    claims.UID,
		Email:     claims.Email,
		SessionID: claims.SID,
	}, nil
}

func newJWTManager(cfg JWTConfig) (*jwt.Manager, error) {
	return jwt.NewManager(jwt.Config{
		SigningMethod: jwt.SigningMethod(cfg.SigningMethod),
		Secret:        cfg.Secret,
		PublicKey:     cfg.PublicKey,
		PrivateKey:    cfg.PrivateKey,
		Issuer:        cfg.Issuer,
		Audience:      cfg.Audience,
		Leeway:        cfg.Leeway,
		AccessTTL:     cfg.AccessTTL,
	})
}
