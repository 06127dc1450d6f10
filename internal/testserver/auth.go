package testserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// sessionHeader is the request header carrying the session token.
const sessionHeader = "Bridge-Session"

const sessionTTL = 12 * time.Hour

// sessionClaims are the JWT claims embedded in a session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Roles []bridge.Role `json:"roles,omitempty"`
}

// jwtManager signs and validates session tokens. Validation alone does not
// grant access: the store's session table is consulted too, so sign-out
// and account deletion revoke tokens immediately.
type jwtManager struct {
	secret []byte
}

func newJWTManager(secret []byte) *jwtManager {
	return &jwtManager{secret: secret}
}

func (m *jwtManager) issueToken(acct *account) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		Roles: acct.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", bridge.WrapError(err, "failed to sign session token")
	}
	return signed, nil
}

func (m *jwtManager) validateToken(token string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, bridge.NewError(bridge.KindUnauthorized, "unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", bridge.NewError(bridge.KindUnauthorized, "invalid session token")
	}
	return claims.Subject, nil
}

const accountContextKey = "testserver.account"

// requireSession authenticates the session header and stashes the account
// on the gin context.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(sessionHeader)
		if token == "" {
			abortWithError(c, bridge.NewError(bridge.KindUnauthorized, "not signed in"))
			return
		}
		if _, err := s.jwt.validateToken(token); err != nil {
			abortWithError(c, bridge.NewError(bridge.KindUnauthorized, "invalid session token"))
			return
		}
		acct, ok := s.store.accountForSession(token)
		if !ok {
			abortWithError(c, bridge.NewError(bridge.KindUnauthorized, "session has been revoked"))
			return
		}
		c.Set(accountContextKey, acct)
		c.Next()
	}
}

// requireRole gates a route group on one of the account's roles.
func (s *Server) requireRole(role bridge.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		acct := currentAccount(c)
		if acct == nil || !acct.hasRole(role) {
			abortWithError(c, bridge.NewError(bridge.KindUnauthorized, "caller does not have the "+string(role)+" role"))
			return
		}
		c.Next()
	}
}

// requireConsent gates a route group on the account's consent flag.
func (s *Server) requireConsent() gin.HandlerFunc {
	return func(c *gin.Context) {
		acct := currentAccount(c)
		if acct == nil || !acct.Consented {
			abortWithError(c, bridge.NewError(bridge.KindUnauthorized, "caller has not consented"))
			return
		}
		c.Next()
	}
}

func currentAccount(c *gin.Context) *account {
	value, ok := c.Get(accountContextKey)
	if !ok {
		return nil
	}
	acct, _ := value.(*account)
	return acct
}

// abortWithError renders a bridge error as the Bridge wire error body.
func abortWithError(c *gin.Context, err error) {
	be, ok := err.(*bridge.Error)
	if !ok {
		be = bridge.NewError(bridge.KindTransport, err.Error())
	}
	status := be.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    be.Message,
		"type":       be.ExceptionType(),
	})
}
