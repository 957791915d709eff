package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Currency is fixed; Razorpay amounts travel in paise.
const Currency = "INR"

// GatewayOrder is the remote payment order created before the customer
// pays. Amount is in minor units (paise).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the Razorpay orders API and verifies payment callbacks.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// CreateOrder registers a remote payment order for amount (major units;
// rupees). The gateway wants paise, so the amount is multiplied by 100 and
// rounded. Receipt carries our order number so the two systems can be
// reconciled.
func (c *Client) CreateOrder(amount float64, receipt string) (GatewayOrder, error) {
	if amount <= 0 {
		return GatewayOrder{}, fmt.Errorf("invalid amount %v", amount)
	}

	body, err := json.Marshal(map[string]any{
		"amount":   int64(math.Round(amount * 100)),
		"currency": Currency,
		"receipt":  receipt,
		"notes":    map[string]string{"orderNumber": receipt},
	})
	if err != nil {
		return GatewayOrder{}, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("razorpay request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return GatewayOrder{}, fmt.Errorf("razorpay returned status %d", res.StatusCode)
	}

	var gw GatewayOrder
	if err := json.NewDecoder(res.Body).Decode(&gw); err != nil {
		return GatewayOrder{}, fmt.Errorf("razorpay response: %w", err)
	}
	if gw.ID == "" {
		return GatewayOrder{}, fmt.Errorf("razorpay response missing order id")
	}
	return gw, nil
}

// VerifySignature checks that a payment callback really came from the
// gateway: the signature must equal hex(HMAC-SHA256("orderID|paymentID"))
// under the shared key secret. The comparison is constant-time. Any missing
// field fails verification; there is no bypass path.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" || c.keySecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, provided)
}
