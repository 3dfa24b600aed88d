package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Verification failures are coarse on purpose: callers (and clients) must
// not learn which check rejected the payload.
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrStaleAuth        = errors.New("stale auth data")
	ErrMalformedPayload = errors.New("malformed auth payload")
)

const (
	// MaxAge is how old an auth_date may be before the assertion is rejected.
	MaxAge = 600 * time.Second
	// maxClockSkew tolerates auth_date slightly in the future.
	maxClockSkew = 300 * time.Second

	secretKeyLabel = "WebAppData"
)

// VerifiedUser is the identity embedded in a validated initData payload.
// Its fields are trusted only because the HMAC over the whole payload passed.
type VerifiedUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	PhotoURL  string `json:"photo_url"`
}

// Verify checks a Telegram WebApp initData string against the bot token.
// It validates freshness of auth_date, recomputes the HMAC-SHA256 over the
// sorted key=value check-string with the "WebAppData"-derived secret key,
// compares in constant time, and only then decodes the user payload.
func Verify(initData, botToken string) (*VerifiedUser, error) {
	return verifyAt(initData, botToken, time.Now())
}

func verifyAt(initData, botToken string, now time.Time) (*VerifiedUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrMalformedPayload
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrInvalidSignature
	}
	values.Del("hash")

	authDateStr := values.Get("auth_date")
	if authDateStr == "" {
		return nil, ErrStaleAuth
	}
	authDate, err := strconv.ParseInt(authDateStr, 10, 64)
	if err != nil {
		return nil, ErrStaleAuth
	}
	age := now.Unix() - authDate
	if age > int64(MaxAge.Seconds()) || -age > int64(maxClockSkew.Seconds()) {
		return nil, ErrStaleAuth
	}

	var pairs []string
	for k, v := range values {
		pairs = append(pairs, k+"="+strings.Join(v, ""))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte(secretKeyLabel))
	secret.Write([]byte(botToken))
	secretKey := secret.Sum(nil)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(checkString))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(hash)
	if err != nil || len(provided) != len(expected) {
		return nil, ErrInvalidSignature
	}
	if !hmac.Equal(expected, provided) {
		return nil, ErrInvalidSignature
	}

	userRaw := values.Get("user")
	if userRaw == "" {
		return nil, ErrMalformedPayload
	}
	var user VerifiedUser
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		return nil, ErrMalformedPayload
	}
	if user.ID == 0 {
		return nil, ErrMalformedPayload
	}
	return &user, nil
}

// Sign computes the hash Telegram would attach to the given fields. Used by
// tests and by the dev-mode token generator.
func Sign(fields url.Values, botToken string) string {
	var pairs []string
	for k, v := range fields {
		if k == "hash" {
			continue
		}
		pairs = append(pairs, k+"="+strings.Join(v, ""))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte(secretKeyLabel))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}
