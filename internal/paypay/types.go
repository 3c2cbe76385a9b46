package paypay

// MoneyAmount is PayPay's amount-with-currency pair. The gateway only ever
// charges whole JPY.
type MoneyAmount struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// OrderItem is one line of the provider-side order.
type OrderItem struct {
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	Quantity  int         `json:"quantity"`
	ProductID string      `json:"productId"`
	UnitPrice MoneyAmount `json:"unitPrice"`
}

// CreateQRCodePayload is the body of POST /v2/qrcode. Field names and fixed
// values (codeType, redirectType) follow PayPay's Web Payment API.
type CreateQRCodePayload struct {
	MerchantPaymentID string      `json:"merchantPaymentId"`
	Amount            MoneyAmount `json:"amount"`
	CodeType          string      `json:"codeType"`
	OrderDescription  string      `json:"orderDescription"`
	OrderItems        []OrderItem `json:"orderItems"`
	RedirectURL       string      `json:"redirectUrl"`
	RedirectType      string      `json:"redirectType"`
}

// ResultInfo is PayPay's nested status block. A 2xx HTTP status alone does
// not mean success; Code must equal "SUCCESS".
type ResultInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	CodeID  string `json:"codeId"`
}

// QRCodeData carries the fields of the created code the gateway cares about.
type QRCodeData struct {
	URL      string `json:"url"`
	Deeplink string `json:"deeplink"`
}

// QRCodeResponse is the provider's response to a QR-code creation call.
type QRCodeResponse struct {
	ResultInfo ResultInfo `json:"resultInfo"`
	Data       QRCodeData `json:"data"`
}

const (
	currencyJPY      = "JPY"
	codeTypeOrderQR  = "ORDER_QR"
	redirectTypeWeb  = "WEB_LINK"
	orderDescription = "カスラーメン自家製麺キリンジ"
)

// NewPayload assembles a QR-code creation payload with the fixed fields
// filled in. total and the item unit prices must come from a verified order.
func NewPayload(merchantPaymentID string, total int, items []OrderItem, redirectURL string) CreateQRCodePayload {
	return CreateQRCodePayload{
		MerchantPaymentID: merchantPaymentID,
		Amount:            MoneyAmount{Amount: total, Currency: currencyJPY},
		CodeType:          codeTypeOrderQR,
		OrderDescription:  orderDescription,
		OrderItems:        items,
		RedirectURL:       redirectURL,
		RedirectType:      redirectTypeWeb,
	}
}
