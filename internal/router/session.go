package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/config"
	handlershared "github.com/dawit-coffee/storefront/internal/http/handlers/shared"
	"github.com/dawit-coffee/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "storefront"

// SessionClaims 会话 Cookie 载荷，Subject 为会话编号
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionMiddleware 签发并续期会话 Cookie，闲置超过有效期后会话失效
func SessionMiddleware(cfg config.SessionConfig, carts cache.CartStore) gin.HandlerFunc {
	secret := []byte(cfg.Secret)
	ttl := cfg.InactivityWindow()
	name := sessionCookieName(cfg)
	path := strings.TrimSpace(cfg.CookiePath)
	if path == "" {
		path = "/"
	}
	sameSite := parseSameSite(cfg.SameSite)

	return func(c *gin.Context) {
		now := time.Now()
		sessionID := ""
		if raw, err := c.Cookie(name); err == nil && raw != "" {
			sessionID = parseSessionToken(raw, secret, now)
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		token, err := signSessionToken(sessionID, secret, now, ttl)
		if err != nil {
			logger.Errorw("session_token_sign_failed", "request_id", getRequestID(c), "error", err)
		} else {
			c.SetSameSite(sameSite)
			c.SetCookie(name, token, int(ttl/time.Second), path, cfg.CookieDomain, cfg.Secure, true)
		}

		c.Set(handlershared.SessionIDKey, sessionID)
		if carts != nil {
			if err := carts.Touch(c.Request.Context(), sessionID); err != nil {
				logger.Warnw("session_cart_touch_failed", "request_id", getRequestID(c), "error", err)
			}
		}
		c.Next()
	}
}

// SessionReaderMiddleware 只读取已有会话，不签发也不续期 Cookie。
// 用于绿界跨站回跳：浏览器未携带 Cookie 时不能覆盖原有会话。
func SessionReaderMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	secret := []byte(cfg.Secret)
	name := sessionCookieName(cfg)
	return func(c *gin.Context) {
		if raw, err := c.Cookie(name); err == nil && raw != "" {
			if sessionID := parseSessionToken(raw, secret, time.Now()); sessionID != "" {
				c.Set(handlershared.SessionIDKey, sessionID)
			}
		}
		c.Next()
	}
}

func sessionCookieName(cfg config.SessionConfig) string {
	if name := strings.TrimSpace(cfg.CookieName); name != "" {
		return name
	}
	return "shop_sid"
}

func signSessionToken(sessionID string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseSessionToken 校验签名与有效期，返回会话编号；无效时返回空串
func parseSessionToken(raw string, secret []byte, now time.Time) string {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return strings.TrimSpace(claims.Subject)
}

func parseSameSite(raw string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
