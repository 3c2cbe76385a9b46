package paypay

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const merchantPaymentIDPrefix = "kirinji"

// SignedEnvelope holds everything needed for one authenticated provider call.
// Body is the exact byte slice that will be transmitted; it must be
// serialized once and reused, or the provider rejects the signature.
type SignedEnvelope struct {
	Method       string
	Path         string
	EpochSeconds int64
	Nonce        string
	Body         []byte
	Signature    string
}

// canonicalMessage is the byte sequence the signature covers: method, path,
// epoch seconds, nonce and body, newline-separated, in that order.
func canonicalMessage(method, path string, epoch int64, nonce string, body []byte) []byte {
	parts := []string{method, path, strconv.FormatInt(epoch, 10), nonce, string(body)}
	return []byte(strings.Join(parts, "\n"))
}

// sign computes the base64 HMAC-SHA256 signature over the canonical message.
func sign(method, path string, epoch int64, nonce string, body []byte, apiSecret string) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write(canonicalMessage(method, path, epoch, nonce, body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// newSignedEnvelope signs a request body for the given method and path.
func newSignedEnvelope(method, path string, epoch int64, nonce string, body []byte, apiSecret string) SignedEnvelope {
	return SignedEnvelope{
		Method:       method,
		Path:         path,
		EpochSeconds: epoch,
		Nonce:        nonce,
		Body:         body,
		Signature:    sign(method, path, epoch, nonce, body, apiSecret),
	}
}

// AuthorizationHeader renders the envelope as a PayPay Authorization header:
// the hmac OPA-Auth scheme token, then colon-joined key, nonce, epoch and
// signature.
func (e SignedEnvelope) AuthorizationHeader(apiKey string) string {
	return fmt.Sprintf("hmac OPA-Auth:%s:%s:%d:%s", apiKey, e.Nonce, e.EpochSeconds, e.Signature)
}

// NewMerchantPaymentID mints an id unique per payment attempt: a fixed
// namespace prefix, a millisecond timestamp and 4 random bytes. Uniqueness is
// best-effort; the provider deduplicates by this id and collisions are
// negligible at the shop's volume.
func NewMerchantPaymentID() (string, error) {
	suffix, err := randomHex(4)
	if err != nil {
		return "", fmt.Errorf("merchant payment id: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s", merchantPaymentIDPrefix, time.Now().UnixMilli(), suffix), nil
}

// newNonce mints the single-use random value included in each signature.
func newNonce() (string, error) {
	nonce, err := randomHex(8)
	if err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	return nonce, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
