package paypay

import "os"

// Credentials are the PayPay API credentials for the merchant account.
type Credentials struct {
	APIKey     string
	APISecret  string
	MerchantID string
}

// LoadCredentials reads credentials from the environment. Missing values are
// left empty; callers must check Complete before building signed requests.
func LoadCredentials() Credentials {
	return Credentials{
		APIKey:     os.Getenv("PAYPAY_API_KEY"),
		APISecret:  os.Getenv("PAYPAY_API_SECRET"),
		MerchantID: os.Getenv("PAYPAY_MERCHANT_ID"),
	}
}

// Complete reports whether all required credentials are present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.MerchantID != ""
}
