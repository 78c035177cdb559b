package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"tutoring-api/internal/config"
	"tutoring-api/pkg/logging"
)

// signatureTolerance bounds how old a signed webhook timestamp may be
const signatureTolerance = 5 * time.Minute

// FedapayService is the payment-gateway client. It implements only the
// contract the billing engine needs: create a transaction and obtain a
// checkout URL, and verify webhook signatures.
type FedapayService struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// NewFedapayService creates a new FedaPay client from configuration
func NewFedapayService() *FedapayService {
	return &FedapayService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   strings.TrimRight(config.AppConfig.FedapayBaseURL, "/"),
		secretKey: config.AppConfig.FedapaySecretKey,
	}
}

// NewFedapayServiceWithBaseURL creates a client against an explicit base URL
// (used by tests to point at a stand-in gateway)
func NewFedapayServiceWithBaseURL(baseURL, secretKey string) *FedapayService {
	return &FedapayService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
	}
}

// CheckoutSession is the result of creating a gateway transaction
type CheckoutSession struct {
	TransactionID int64
	Reference     string
	CheckoutURL   string
	RawResponse   string
}

// CreateTransactionRequest carries what the gateway needs to open a checkout
type CreateTransactionRequest struct {
	Reference   string
	Description string
	Amount      int64
	FullName    string
	Phone       string
	CallbackURL string
}

// CreateTransaction creates a gateway transaction and fetches its checkout
// URL. The gateway's response shape has varied across integrations, so the id
// and URL are pulled out with ordered extraction strategies rather than a
// fixed schema (see extractInt64 / extractString).
func (s *FedapayService) CreateTransaction(req CreateTransactionRequest) (*CheckoutSession, error) {
	body := map[string]interface{}{
		"description":        req.Description,
		"amount":             req.Amount,
		"currency":           map[string]interface{}{"iso": "XOF"},
		"callback_url":       req.CallbackURL,
		"merchant_reference": req.Reference,
		"custom_metadata":    map[string]interface{}{"reference": req.Reference},
		"customer": map[string]interface{}{
			"firstname":    req.FullName,
			"phone_number": map[string]interface{}{"number": req.Phone},
		},
	}

	raw, err := s.post("/transactions", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway transaction: %w", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	transactionID, ok := extractInt64(payload, "id")
	if !ok {
		return nil, fmt.Errorf("gateway response carries no transaction id")
	}

	tokenRaw, err := s.post(fmt.Sprintf("/transactions/%d/token", transactionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate checkout token: %w", err)
	}

	var tokenPayload map[string]interface{}
	if err := json.Unmarshal(tokenRaw, &tokenPayload); err != nil {
		return nil, fmt.Errorf("failed to parse checkout token response: %w", err)
	}

	checkoutURL, ok := extractString(tokenPayload, "url")
	if !ok {
		return nil, fmt.Errorf("checkout token response carries no url")
	}

	reference, ok := extractString(payload, "reference")
	if !ok {
		reference = req.Reference
	}

	return &CheckoutSession{
		TransactionID: transactionID,
		Reference:     reference,
		CheckoutURL:   checkoutURL,
		RawResponse:   string(raw),
	}, nil
}

// post sends an authenticated JSON request to the gateway
func (s *FedapayService) post(path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest("POST", s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Errorf("Gateway error %d on %s: %s", resp.StatusCode, path, string(raw))
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return raw, nil
}

// extractInt64 pulls an integer field out of a variably-shaped payload.
// Strategies, first match wins: the field at the top level, the field inside
// any one-level wrapper object (FedaPay nests under keys like
// "v1/transaction"), then a depth-first search of the whole document.
func extractInt64(payload map[string]interface{}, field string) (int64, bool) {
	if v, ok := asInt64(payload[field]); ok {
		return v, true
	}
	for _, value := range payload {
		if nested, ok := value.(map[string]interface{}); ok {
			if v, ok := asInt64(nested[field]); ok {
				return v, true
			}
		}
	}
	if found, ok := deepSearch(payload, field); ok {
		return asInt64(found)
	}
	return 0, false
}

// extractString pulls a string field out of a variably-shaped payload using
// the same strategy order as extractInt64
func extractString(payload map[string]interface{}, field string) (string, bool) {
	if v, ok := payload[field].(string); ok && v != "" {
		return v, true
	}
	for _, value := range payload {
		if nested, ok := value.(map[string]interface{}); ok {
			if v, ok := nested[field].(string); ok && v != "" {
				return v, true
			}
		}
	}
	if found, ok := deepSearch(payload, field); ok {
		if v, ok := found.(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// deepSearch walks the document depth-first for the first occurrence of field
func deepSearch(node interface{}, field string) (interface{}, bool) {
	switch value := node.(type) {
	case map[string]interface{}:
		if v, ok := value[field]; ok {
			return v, true
		}
		for _, child := range value {
			if v, ok := deepSearch(child, field); ok {
				return v, true
			}
		}
	case []interface{}:
		for _, child := range value {
			if v, ok := deepSearch(child, field); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// asInt64 coerces the JSON number/string encodings of an id
func asInt64(v interface{}) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case json.Number:
		n, err := value.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(value, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// WebhookEvent is one gateway confirmation event
type WebhookEvent struct {
	Name     string `json:"name"`
	ObjectID int64  `json:"object_id"`
	Entity   struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"entity"`
}

// TransactionID returns the gateway transaction id the event refers to,
// preferring the entity id over the envelope object id. Zero means the event
// carries no usable id.
func (e *WebhookEvent) TransactionID() int64 {
	if e.Entity.ID != 0 {
		return e.Entity.ID
	}
	return e.ObjectID
}

// Approved reports whether the event confirms a payment
func (e *WebhookEvent) Approved() bool {
	status := strings.ToLower(e.Entity.Status)
	name := strings.ToLower(e.Name)
	return status == "approved" || strings.Contains(name, "approved")
}

// Status returns the transaction status the event reports, defaulting to
// pending when the gateway sent none
func (e *WebhookEvent) Status() string {
	status := strings.ToLower(e.Entity.Status)
	if status == "" {
		return "pending"
	}
	return status
}

// VerifyWebhookSignature checks the gateway's signature header against the
// shared webhook secret before any payload is trusted. The header carries a
// signed timestamp and an HMAC-SHA256 over "<timestamp>.<body>":
//
//	t=1712345678,s=5257a869e7...
//
// Stale timestamps are rejected to keep captured deliveries from being
// replayed outside the tolerance window.
func VerifyWebhookSignature(body []byte, signatureHeader, secret string) error {
	var timestamp int64
	var signature string

	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid signature timestamp: %w", err)
			}
			timestamp = parsed
		case "s":
			signature = value
		}
	}

	if timestamp == 0 || signature == "" {
		return fmt.Errorf("malformed signature header")
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// ParseWebhookEvent decodes a verified event body
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}
