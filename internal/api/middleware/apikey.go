package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/ndewijer/portfolio-performance/internal/api/response"
)

// TimeTokenTTL is how long a time token generated by GenerateTimeToken stays valid.
const TimeTokenTTL = 5 * time.Minute

const (
	apiKeyHeader    = "X-API-Key"
	timeTokenHeader = "X-Time-Token"
)

// APIKeyMiddleware protects write endpoints.
//
// A request must carry the shared secret from INTERNAL_API_KEY in the X-API-Key header
// and a fresh X-Time-Token created by GenerateTimeToken with the same key. The key is
// read when the middleware is built, so rotating it requires a restart.
//
// Returns 500 when no key is configured and 401 for any missing or invalid credential.
func APIKeyMiddleware(next http.Handler) http.Handler {
	apiKey := os.Getenv("INTERNAL_API_KEY")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "server misconfigured", "Authentication not loaded")
			return
		}

		provided := r.Header.Get(apiKeyHeader)
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		token := r.Header.Get(timeTokenHeader)
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}

		key := deriveFernetKey(apiKey)
		if fernet.VerifyAndDecrypt([]byte(token), TimeTokenTTL, []*fernet.Key{key}) == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken creates a fernet token for the X-Time-Token header.
// The token embeds its creation time and is accepted for TimeTokenTTL.
// Returns an empty string if encryption fails.
func GenerateTimeToken(apiKey string) string {
	payload := []byte(strconv.FormatInt(time.Now().Unix(), 10))

	token, err := fernet.EncryptAndSign(payload, deriveFernetKey(apiKey))
	if err != nil {
		return ""
	}
	return string(token)
}

// deriveFernetKey turns an arbitrary-length API key into a 32-byte fernet key.
func deriveFernetKey(apiKey string) *fernet.Key {
	key := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &key
}
