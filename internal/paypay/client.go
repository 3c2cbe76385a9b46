package paypay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	// SandboxBaseURL is PayPay's staging environment.
	SandboxBaseURL = "https://stg.paypay.ne.jp"
	// ProductionBaseURL is PayPay's production environment.
	ProductionBaseURL = "https://api.paypay.ne.jp"

	qrCodePath        = "/v2/qrcode"
	resultCodeSuccess = "SUCCESS"

	// The reference had no outbound timeout; a hung provider would hang the
	// request. Expiry is reported as a provider failure, never retried.
	defaultTimeout = 10 * time.Second
)

// ProviderError is a failed provider call: transport failure, non-2xx status
// or a 2xx whose resultInfo code is not SUCCESS. Message carries the
// provider's own message when one was given; Raw holds the full response body
// for server-side logs.
type ProviderError struct {
	StatusCode int
	Message    string
	Raw        []byte
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("paypay: request failed with status %d", e.StatusCode)
}

// Client issues signed QR-code creation calls against PayPay. One call per
// gateway request, no retries: merchant payment ids are minted per attempt,
// so an automatic retry could create a duplicate payment intent.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	nowFunc    func() time.Time
}

// NewClient returns a Client against the given base URL, normally
// SandboxBaseURL or ProductionBaseURL.
func NewClient(creds Credentials, baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
		nowFunc:    time.Now,
	}
}

// CreateQRCode serializes the payload once, signs those exact bytes and posts
// them to /v2/qrcode. Success requires both a 2xx status and
// resultInfo.code == "SUCCESS"; anything else is a *ProviderError.
func (c *Client) CreateQRCode(ctx context.Context, payload CreateQRCodePayload) (*QRCodeResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	env := newSignedEnvelope(http.MethodPost, qrCodePath, c.nowFunc().Unix(), nonce, body, c.creds.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+qrCodePath, bytes.NewReader(env.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.AuthorizationHeader(c.creds.APIKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	var out QRCodeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// non-JSON body; still surface the status
		log.Printf("[paypay] unparseable response status=%d body=%s", resp.StatusCode, raw)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Raw: raw}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.ResultInfo.Code != resultCodeSuccess {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    out.ResultInfo.Message,
			Raw:        raw,
		}
	}

	return &out, nil
}
