package domain

// TokenKind distinguishes the three token flavours issued by the codec.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
	TokenService TokenKind = "service"
)
