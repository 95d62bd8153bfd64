package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	SignatureHeader = "X-Webhook-Signature"
	TimestampHeader = "X-Webhook-Timestamp"

	// SignaturePrefix tags the digest algorithm in the signature header.
	SignaturePrefix = "sha256="

	seenSignatures = 4096
)

var (
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
	ErrStaleTimestamp    = errors.New("webhook timestamp outside tolerance")
	ErrReplayed          = errors.New("webhook signature replayed")
)

// Sign computes the hex HMAC-SHA256 of "<unix timestamp>.<payload>".
func Sign(secret string, timestamp time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp.Unix())
	mac.Write(payload)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verifier checks inbound webhook signatures. Accepted signatures are
// remembered for the tolerance window so a captured request cannot be
// replayed.
type Verifier struct {
	secret    string
	tolerance time.Duration
	seen      *expirable.LRU[string, struct{}]
	now       func() time.Time
}

func NewVerifier(config *Config) *Verifier {
	return &Verifier{
		secret:    config.Secret,
		tolerance: config.Tolerance,
		seen:      expirable.NewLRU[string, struct{}](seenSignatures, nil, config.Tolerance),
		now:       time.Now,
	}
}

// Verify checks the timestamp freshness and the signature over the payload.
// The comparison is constant time.
func (v *Verifier) Verify(payload []byte, signature, timestamp string) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("parse webhook timestamp: %w", err)
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrStaleTimestamp
	}

	expected := Sign(v.secret, time.Unix(ts, 0), payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrSignatureMismatch
	}

	if _, dup := v.seen.Get(signature); dup {
		return ErrReplayed
	}
	v.seen.Add(signature, struct{}{})
	return nil
}
