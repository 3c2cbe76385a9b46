package paypay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

var testCreds = Credentials{APIKey: "key-1", APISecret: "secret-1", MerchantID: "merchant-1"}

// capturedRequest records what the fake provider received.
type capturedRequest struct {
	auth string
	body []byte
}

func newTestClient(serverURL string) *Client {
	return NewClient(testCreds, serverURL)
}

func testPayload() CreateQRCodePayload {
	return NewPayload("kirinji_1700000000000_abcd1234", 2050, []OrderItem{
		{Name: "こってり", Category: "こってり", Quantity: 2, ProductID: "こってり", UnitPrice: MoneyAmount{Amount: 950, Currency: "JPY"}},
		{Name: "味玉", Category: "トッピング・サイド", Quantity: 1, ProductID: "味玉", UnitPrice: MoneyAmount{Amount: 150, Currency: "JPY"}},
	}, "https://jikaseimenkirinji.vercel.app/complete")
}

func TestCreateQRCode_SignsTransmittedBytes(t *testing.T) {
	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		captured.body, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(QRCodeResponse{
			ResultInfo: ResultInfo{Code: "SUCCESS"},
			Data:       QRCodeData{URL: "https://qr.example/pay"},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).CreateQRCode(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("CreateQRCode: %v", err)
	}
	if resp.Data.URL != "https://qr.example/pay" {
		t.Fatalf("expected redirect url, got %q", resp.Data.URL)
	}

	// recompute the signature from the transmitted bytes; it must match the
	// header, proving the signed bytes and sent bytes are identical
	fields := strings.Split(strings.TrimPrefix(captured.auth, "hmac OPA-Auth:"), ":")
	if len(fields) != 4 {
		t.Fatalf("unexpected auth header %q", captured.auth)
	}
	if fields[0] != testCreds.APIKey {
		t.Fatalf("auth header api key = %q", fields[0])
	}
	epoch, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		t.Fatalf("epoch field not numeric: %q", fields[2])
	}
	want := sign(http.MethodPost, qrCodePath, epoch, fields[1], captured.body, testCreds.APISecret)
	if fields[3] != want {
		t.Fatalf("signature does not cover the transmitted body:\n got %q\nwant %q", fields[3], want)
	}

	var sent CreateQRCodePayload
	if err := json.Unmarshal(captured.body, &sent); err != nil {
		t.Fatalf("provider received invalid JSON: %v", err)
	}
	if sent.Amount.Amount != 2050 || sent.Amount.Currency != "JPY" {
		t.Fatalf("unexpected amount sent: %+v", sent.Amount)
	}
	if sent.CodeType != "ORDER_QR" || sent.RedirectType != "WEB_LINK" {
		t.Fatalf("fixed fields wrong: %+v", sent)
	}
}

func TestCreateQRCode_ResultCodeMismatchDespite200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(QRCodeResponse{
			ResultInfo: ResultInfo{Code: "INVALID_REQUEST_PARAMS", Message: "amount is invalid"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateQRCode(context.Background(), testPayload())
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Message != "amount is invalid" {
		t.Fatalf("expected provider message surfaced, got %q", pe.Message)
	}
	if len(pe.Raw) == 0 {
		t.Fatal("raw provider response should be retained for logging")
	}
}

func TestCreateQRCode_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(QRCodeResponse{
			ResultInfo: ResultInfo{Code: "UNAUTHORIZED", Message: "invalid api key"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateQRCode(context.Background(), testPayload())
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", pe.StatusCode)
	}
}

func TestCreateQRCode_SuccessCodeWithNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(QRCodeResponse{ResultInfo: ResultInfo{Code: "SUCCESS"}})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).CreateQRCode(context.Background(), testPayload()); err == nil {
		t.Fatal("non-2xx status must be an error even with a SUCCESS code")
	}
}

func TestCreateQRCode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 20 * time.Millisecond}

	if _, err := c.CreateQRCode(context.Background(), testPayload()); err == nil {
		t.Fatal("expected timeout to surface as an error")
	}
}
