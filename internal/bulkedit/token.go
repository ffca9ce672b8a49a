package bulkedit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Intent is the exact mutation a preview token binds: operation, field,
// value and the ordered target list. Execution takes its inputs from a
// decoded Intent only, never from workflow state, so what runs is exactly
// what was previewed.
type Intent struct {
	Operation OperationType `json:"operation"`
	Field     FieldSelector `json:"field"`
	Value     MutationValue `json:"value"`
	TargetIDs []string      `json:"target_ids"`
	IssuedAt  int64         `json:"issued_at"`
}

// TokenCodec mints and verifies preview tokens. A token is the base64url
// JSON encoding of the Intent plus an HMAC-SHA256 signature over those
// bytes, so transport corruption or tampering fails verification instead of
// decoding into a different intent.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec creates a codec signing with key. Tokens older than ttl are
// refused at decode time; ttl <= 0 disables the expiry check.
func NewTokenCodec(key string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{key: []byte(key), ttl: ttl, now: time.Now}
}

// Encode serializes and signs the intent. IssuedAt is stamped here; the
// payload is otherwise a pure function of the intent.
func (c *TokenCodec) Encode(intent Intent) (string, error) {
	intent.IssuedAt = c.now().Unix()
	payload, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("encode preview token: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + c.sign(payload), nil
}

// Decode verifies the signature and expiry, then returns the intent.
// Failures wrap ErrTokenInvalid (or ErrTokenExpired) and are fatal for the
// execute call.
func (c *TokenCodec) Decode(token string) (Intent, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return Intent{}, fmt.Errorf("%w: malformed token", ErrTokenInvalid)
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !hmac.Equal([]byte(c.sign(payload)), []byte(sig)) {
		return Intent{}, fmt.Errorf("%w: signature mismatch", ErrTokenInvalid)
	}

	var intent Intent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return Intent{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if c.ttl > 0 {
		issued := time.Unix(intent.IssuedAt, 0)
		if c.now().Sub(issued) > c.ttl {
			return Intent{}, fmt.Errorf("%w: issued %s ago", ErrTokenExpired, c.now().Sub(issued).Round(time.Second))
		}
	}
	return intent, nil
}

func (c *TokenCodec) sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
