package midtrans

// Payment types accepted by the charge endpoint.
const (
	PaymentCreditCard   = "credit_card"
	PaymentBankTransfer = "bank_transfer"
	PaymentEchannel     = "echannel"
	PaymentGopay        = "gopay"
	PaymentShopeepay    = "shopeepay"
)

// TransactionDetails identifies the charge. OrderID is caller-supplied
// and must be unique per checkout attempt; it is the correlation key
// the order layer joins on.
type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type callbacks struct {
	Finish  string `json:"finish,omitempty"`
	Pending string `json:"pending,omitempty"`
	Error   string `json:"error,omitempty"`
}

type snapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
	Callbacks          callbacks          `json:"callbacks"`
}

// SnapTransaction is the hosted-checkout handle returned by Snap.
type SnapTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type creditCardOptions struct {
	Secure bool `json:"secure"`
}

type bankTransferOptions struct {
	Bank string `json:"bank"`
}

type chargeRequest struct {
	PaymentType        string               `json:"payment_type"`
	TransactionDetails TransactionDetails   `json:"transaction_details"`
	CustomerDetails    CustomerDetails      `json:"customer_details"`
	ItemDetails        []ItemDetail         `json:"item_details"`
	CreditCard         *creditCardOptions   `json:"credit_card,omitempty"`
	BankTransfer       *bankTransferOptions `json:"bank_transfer,omitempty"`
}

type refundRequest struct {
	RefundKey string `json:"refund_key"`
	Amount    int64  `json:"amount,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// TransactionResponse is the provider's decoded transaction descriptor,
// shared by charge/status/cancel/refund. StatusCode is the provider's
// application-level code ("200", "201", ...), distinct from the HTTP
// status of the call.
type TransactionResponse struct {
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	TransactionID     string `json:"transaction_id"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	RedirectURL       string `json:"redirect_url,omitempty"`

	ErrorMessages []string `json:"error_messages,omitempty"`
}

// PaymentMethod is a static catalog entry; no provider call involved.
type PaymentMethod struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}
