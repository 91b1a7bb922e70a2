package wayforpay

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fatflowers/karma/pkg/config"

	"go.uber.org/fx"
)

// Transaction statuses reported in service-url callbacks.
const (
	StatusApproved       = "Approved"
	StatusDeclined       = "Declined"
	StatusExpired        = "Expired"
	StatusRefunded       = "Refunded"
	StatusVoided         = "Voided"
	StatusInProcessing   = "InProcessing"
	StatusPending        = "Pending"
	StatusWaitingConfirm = "WaitingAuthComplete"
)

const (
	ResponseAccept  = "accept"
	ResponseDecline = "decline"
)

var (
	ErrNotConfigured    = errors.New("wayforpay: merchant is not configured")
	ErrInvalidSignature = errors.New("wayforpay: invalid signature")
	ErrEmptyBody        = errors.New("wayforpay: empty notification body")
)

// Notification is the JSON document posted to the service url.
type Notification struct {
	MerchantAccount   string          `json:"merchantAccount"`
	MerchantSignature string          `json:"merchantSignature"`
	OrderReference    string          `json:"orderReference"`
	Amount            json.Number     `json:"amount"`
	Currency          string          `json:"currency"`
	AuthCode          string          `json:"authCode"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	CreatedDate       int64           `json:"createdDate,omitempty"`
	ProcessingDate    int64           `json:"processingDate,omitempty"`
	CardPan           string          `json:"cardPan"`
	CardType          string          `json:"cardType,omitempty"`
	TransactionStatus string          `json:"transactionStatus"`
	Reason            string          `json:"reason,omitempty"`
	ReasonCode        json.Number     `json:"reasonCode"`
	Fee               json.Number     `json:"fee,omitempty"`
	PaymentSystem     string          `json:"paymentSystem,omitempty"`
	Raw               json.RawMessage `json:"-"`
}

// Response acknowledges a notification; the provider retries until it gets one.
type Response struct {
	OrderReference string `json:"orderReference"`
	Status         string `json:"status"`
	Time           int64  `json:"time"`
	Signature      string `json:"signature"`
}

// PurchaseForm holds the fields posted by the browser to the payment page.
type PurchaseForm struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

type Order struct {
	Reference   string
	Date        time.Time
	Amount      int64
	Currency    string
	ProductName string
}

type Client struct {
	merchant   string
	secret     string
	domain     string
	serviceURL string
	returnURL  string
	payURL     string
}

func New(cfg *config.Config) *Client {
	c := cfg.WayForPay
	return &Client{
		merchant:   c.Merchant,
		secret:     c.Secret,
		domain:     c.Domain,
		serviceURL: c.ServiceURL,
		returnURL:  c.ReturnURL,
		payURL:     c.PayURL,
	}
}

func (c *Client) Enabled() bool {
	return c.merchant != "" && c.secret != ""
}

// Sign returns the hex HMAC-MD5 of the fields joined by ";".
func (c *Client) Sign(fields ...string) string {
	mac := hmac.New(md5.New, []byte(c.secret))
	mac.Write([]byte(strings.Join(fields, ";")))
	return hex.EncodeToString(mac.Sum(nil))
}

// PurchaseForm builds the signed form for the hosted payment page.
func (c *Client) PurchaseForm(o Order) (*PurchaseForm, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	amount := strconv.FormatInt(o.Amount, 10)
	orderDate := strconv.FormatInt(o.Date.Unix(), 10)
	fields := map[string]string{
		"merchantAccount":               c.merchant,
		"merchantDomainName":            c.domain,
		"merchantTransactionSecureType": "AUTO",
		"orderReference":                o.Reference,
		"orderDate":                     orderDate,
		"amount":                        amount,
		"currency":                      o.Currency,
		"productName[]":                 o.ProductName,
		"productCount[]":                "1",
		"productPrice[]":                amount,
		"language":                      "UA",
	}
	if c.serviceURL != "" {
		fields["serviceUrl"] = c.serviceURL
	}
	if c.returnURL != "" {
		fields["returnUrl"] = c.returnURL
	}
	fields["merchantSignature"] = c.Sign(
		c.merchant, c.domain, o.Reference, orderDate, amount, o.Currency, o.ProductName, "1", amount,
	)
	return &PurchaseForm{URL: c.payURL, Fields: fields}, nil
}

// ParseNotification accepts a JSON body or a form body whose single key is the JSON document.
func ParseNotification(body []byte) (*Notification, error) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return nil, ErrEmptyBody
	}
	if !strings.HasPrefix(raw, "{") {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return nil, fmt.Errorf("wayforpay: parse form body: %w", err)
		}
		raw = ""
		for k, v := range values {
			if strings.HasPrefix(strings.TrimSpace(k), "{") {
				raw = k
				if len(v) > 0 && v[0] != "" {
					raw += "=" + v[0]
				}
				break
			}
		}
		if raw == "" {
			return nil, fmt.Errorf("wayforpay: form body holds no json document")
		}
	}
	var n Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("wayforpay: decode notification: %w", err)
	}
	n.Raw = json.RawMessage(raw)
	return &n, nil
}

// Verify checks the notification signature in constant time.
func (c *Client) Verify(n *Notification) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	expected := c.Sign(
		n.MerchantAccount, n.OrderReference, n.Amount.String(), n.Currency,
		n.AuthCode, n.CardPan, n.TransactionStatus, n.ReasonCode.String(),
	)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(n.MerchantSignature))) {
		return ErrInvalidSignature
	}
	return nil
}

// Respond builds the signed acknowledgement.
func (c *Client) Respond(orderReference, status string, now time.Time) *Response {
	ts := now.Unix()
	return &Response{
		OrderReference: orderReference,
		Status:         status,
		Time:           ts,
		Signature:      c.Sign(orderReference, status, strconv.FormatInt(ts, 10)),
	}
}

var Module = fx.Options(
	fx.Provide(New),
)
