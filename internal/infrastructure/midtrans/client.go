package midtrans

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const (
	sandboxSnapBase = "https://app.sandbox.midtrans.com"
	sandboxCoreBase = "https://api.sandbox.midtrans.com"
	prodSnapBase    = "https://app.midtrans.com"
	prodCoreBase    = "https://api.midtrans.com"
)

// Config configures the gateway client. SnapBaseURL/CoreBaseURL are
// normally empty and derived from Production; tests point them at a
// local server.
type Config struct {
	ServerKey   string
	Production  bool
	Timeout     time.Duration
	MaxRetries  int
	SnapBaseURL string
	CoreBaseURL string
	FrontendURL string // base for finish/pending/error callbacks
}

// Client is a pure translation layer between the domain vocabulary and
// the provider's wire vocabulary. It holds no transaction state.
type Client struct {
	serverKey   string
	snapBase    string
	coreBase    string
	frontendURL string
	maxRetries  int
	http        *http.Client
	logger      *logrus.Logger
}

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	snapBase := cfg.SnapBaseURL
	coreBase := cfg.CoreBaseURL
	if snapBase == "" {
		if cfg.Production {
			snapBase = prodSnapBase
		} else {
			snapBase = sandboxSnapBase
		}
	}
	if coreBase == "" {
		if cfg.Production {
			coreBase = prodCoreBase
		} else {
			coreBase = sandboxCoreBase
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		serverKey:   cfg.ServerKey,
		snapBase:    snapBase,
		coreBase:    coreBase,
		frontendURL: cfg.FrontendURL,
		maxRetries:  cfg.MaxRetries,
		http:        &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// CreateSnapTransaction requests a hosted-checkout token for the order.
func (c *Client) CreateSnapTransaction(ctx context.Context, order TransactionDetails, customer CustomerDetails, items []ItemDetail) (*SnapTransaction, error) {
	req := snapRequest{
		TransactionDetails: order,
		CustomerDetails:    customer,
		ItemDetails:        items,
		Callbacks: callbacks{
			Finish:  c.frontendURL + "/payment/success",
			Pending: c.frontendURL + "/payment/pending",
			Error:   c.frontendURL + "/payment/error",
		},
	}
	var resp SnapTransaction
	if err := c.do(ctx, http.MethodPost, c.snapBase+"/snap/v1/transactions", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("snap transaction: empty token in response")
	}
	return &resp, nil
}

// Charge performs a server-to-server direct charge. paymentType
// defaults to credit_card; card and bank-transfer charges carry
// method-specific parameters.
func (c *Client) Charge(ctx context.Context, order TransactionDetails, customer CustomerDetails, items []ItemDetail, paymentType string) (*TransactionResponse, error) {
	if paymentType == "" {
		paymentType = PaymentCreditCard
	}
	req := chargeRequest{
		PaymentType:        paymentType,
		TransactionDetails: order,
		CustomerDetails:    customer,
		ItemDetails:        items,
	}
	switch paymentType {
	case PaymentCreditCard:
		req.CreditCard = &creditCardOptions{Secure: true}
	case PaymentBankTransfer:
		req.BankTransfer = &bankTransferOptions{Bank: "bca"}
	}
	return c.transaction(ctx, http.MethodPost, c.coreBase+"/v2/charge", req)
}

// TransactionStatus queries the authoritative status of an order. This
// is also the verification path for webhook notifications.
func (c *Client) TransactionStatus(ctx context.Context, orderID string) (*TransactionResponse, error) {
	return c.transaction(ctx, http.MethodGet, c.coreBase+"/v2/"+url.PathEscape(orderID)+"/status", nil)
}

func (c *Client) Cancel(ctx context.Context, orderID string) (*TransactionResponse, error) {
	return c.transaction(ctx, http.MethodPost, c.coreBase+"/v2/"+url.PathEscape(orderID)+"/cancel", nil)
}

// Refund refunds an order, fully when amount is zero. The refund key
// carries a random suffix on top of orderID+timestamp so concurrent
// refunds within the same second cannot collide.
func (c *Client) Refund(ctx context.Context, orderID string, amount int64, reason string) (*TransactionResponse, error) {
	req := refundRequest{
		RefundKey: refundKey(orderID),
		Amount:    amount,
		Reason:    reason,
	}
	return c.transaction(ctx, http.MethodPost, c.coreBase+"/v2/"+url.PathEscape(orderID)+"/refund", req)
}

func refundKey(orderID string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("refund-%s-%d-%s", orderID, time.Now().Unix(), hex.EncodeToString(b))
}

// VerifySignature checks the notification signature_key:
// sha512(order_id + status_code + gross_amount + server_key).
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + c.serverKey))
	return hmac.Equal([]byte(hex.EncodeToString(h[:])), []byte(signatureKey))
}

// PaymentMethods returns the static method catalog.
func (c *Client) PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: PaymentCreditCard, Name: "Credit Card", Type: "card", Enabled: true},
		{ID: PaymentBankTransfer, Name: "Bank Transfer", Type: "bank", Enabled: true},
		{ID: PaymentGopay, Name: "GoPay", Type: "ewallet", Enabled: true},
		{ID: PaymentShopeepay, Name: "ShopeePay", Type: "ewallet", Enabled: true},
		{ID: PaymentEchannel, Name: "Mandiri E-Channel", Type: "bank", Enabled: true},
	}
}

func (c *Client) transaction(ctx context.Context, method, endpoint string, body any) (*TransactionResponse, error) {
	var resp TransactionResponse
	if err := c.do(ctx, method, endpoint, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.ErrorMessages) > 0 {
		return nil, fmt.Errorf("provider rejected request: %v", resp.ErrorMessages)
	}
	return &resp, nil
}

// do performs an authenticated JSON request with retry on transport
// errors and 5xx responses. 4xx responses are decoded, not retried: the
// provider reports application failures in the body.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if len(payload) > 0 {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= 500 {
			if c.logger != nil {
				c.logger.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Warn("provider 5xx, retrying")
			}
			return retry.RetryableError(fmt.Errorf("provider returned %d", resp.StatusCode))
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
		if resp.StatusCode >= 400 {
			// Surface decoded error_messages when present.
			if tr, ok := out.(*TransactionResponse); ok && len(tr.ErrorMessages) > 0 {
				return fmt.Errorf("provider rejected request: %v", tr.ErrorMessages)
			}
			return fmt.Errorf("provider returned %d", resp.StatusCode)
		}
		return nil
	})
}
