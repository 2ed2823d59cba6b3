package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zerpy/pkg/logger"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	// LedgerIndexUnset marks an omitted ledger_index argument.
	LedgerIndexUnset = -1

	apiVersion = 1
)

var RequestTimeout = 10 * time.Second

// Result is the uniform outcome of every client call. Status is "ok" or
// "error"; Message carries the failure cause (or a no-content marker) and
// Raw the decoded JSON body when one was present. Calls never return a Go
// error: failure handling is the caller's job, in one shape.
type Result struct {
	Status  string
	Message string
	Raw     json.RawMessage
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Decode unmarshals the response body into v.
func (r Result) Decode(v interface{}) error {
	if len(r.Raw) == 0 {
		return fmt.Errorf("no response body to decode")
	}
	return json.Unmarshal(r.Raw, v)
}

// Client talks to an XRP-API server. It is stateless: one outbound request
// per call, no retries, no caching.
type Client struct {
	node       string
	httpClient *http.Client
}

func NewClient(node string) *Client {
	return &Client{
		node: strings.TrimRight(node, "/"),
		httpClient: &http.Client{
			Timeout: RequestTimeout,
		},
	}
}

func (c *Client) buildURL(endpoint ...string) string {
	return fmt.Sprintf("%s/v%d/%s", c.node, apiVersion, strings.Join(endpoint, "/"))
}

// call performs one HTTP round trip and normalizes every failure mode into
// a Result.
func (c *Client) call(method string, endpoint []string, payload interface{}, headers map[string]string) Result {
	url := c.buildURL(endpoint...)
	start := time.Now()
	logger.Debug("Starting %s request to %s", method, url)

	var requestBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return Result{Status: StatusError, Message: fmt.Sprintf("error marshaling request body: %v", err)}
		}
		requestBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, requestBody)
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("error creating request: %v", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Request to %s failed after %v: %v", url, time.Since(start), err)
		return Result{Status: StatusError, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("error reading response: %v", err)}
	}

	logger.Debug("Request to %s completed in %v with status %d", url, time.Since(start), resp.StatusCode)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if !ok {
		return Result{
			Status:  StatusError,
			Message: errorMessage(resp.StatusCode, body),
			Raw:     rawIfJSON(body),
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return Result{Status: StatusOK, Message: "No content"}
	}
	if !json.Valid(body) {
		return Result{Status: StatusError, Message: "invalid JSON in response body"}
	}
	return Result{Status: StatusOK, Raw: body}
}

// errorMessage prefers a server-provided message, then the HTTP reason
// phrase, then the bare status code.
func errorMessage(code int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Valid(body) {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return payload.Message
		}
	}
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return strconv.Itoa(code)
}

func rawIfJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return body
	}
	return nil
}

func ledgerIndexHeaders(ledgerIndex int) map[string]string {
	if ledgerIndex == LedgerIndexUnset {
		return nil
	}
	// ledger_index travels as a header, not a query parameter. The server
	// expects this placement.
	return map[string]string{"ledger_index": strconv.Itoa(ledgerIndex)}
}

// GetAccountInfo returns an account's settings, activity and XRP balance as
// of the current in-progress ledger (or ledgerIndex when given).
func (c *Client) GetAccountInfo(address string, ledgerIndex int) Result {
	return c.call(http.MethodGet, []string{"accounts", address, "info"}, nil, ledgerIndexHeaders(ledgerIndex))
}

// GetAccountTransactions returns a selection of transactions that affected
// the account.
func (c *Client) GetAccountTransactions(address string, ledgerIndex int) Result {
	return c.call(http.MethodGet, []string{"accounts", address, "transactions"}, nil, ledgerIndexHeaders(ledgerIndex))
}

// GetAccountSettings returns the user-modifiable settings of an account.
func (c *Client) GetAccountSettings(address string, ledgerIndex int) Result {
	return c.call(http.MethodGet, []string{"accounts", address, "settings"}, nil, ledgerIndexHeaders(ledgerIndex))
}

// GetTransaction looks up the status and details of a single transaction.
func (c *Client) GetTransaction(transactionID string) Result {
	return c.call(http.MethodGet, []string{"transactions", transactionID}, nil, nil)
}

type paymentAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type paymentSpec struct {
	SourceAddress      string        `json:"source_address"`
	SourceAmount       paymentAmount `json:"source_amount"`
	SourceTag          string        `json:"source_tag,omitempty"`
	DestinationAddress string        `json:"destination_address"`
	DestinationAmount  paymentAmount `json:"destination_amount"`
	DestinationTag     string        `json:"destination_tag,omitempty"`
}

type paymentRequest struct {
	Payment paymentSpec `json:"payment"`
	Submit  bool        `json:"submit"`
}

// SubmitPayment asks the server to sign and submit an XRP payment. The
// amount is a decimal string and is serialized verbatim: ledger amounts must
// round-trip exactly, so it never passes through a float. Empty tags are
// omitted from the payload.
func (c *Client) SubmitPayment(source, destination, amount, apiKey, destinationTag, sourceTag string, submit bool) Result {
	amt := paymentAmount{Value: amount, Currency: "XRP"}
	payload := paymentRequest{
		Payment: paymentSpec{
			SourceAddress:      source,
			SourceAmount:       amt,
			SourceTag:          sourceTag,
			DestinationAddress: destination,
			DestinationAmount:  amt,
			DestinationTag:     destinationTag,
		},
		Submit: submit,
	}
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	return c.call(http.MethodPost, []string{"payments"}, payload, headers)
}

// Ping confirms the server is online.
func (c *Client) Ping() Result {
	return c.call(http.MethodGet, []string{"ping"}, nil, nil)
}

// GetServerInfo reports the status of the XRP-API server and the rippled
// servers it is connected to.
func (c *Client) GetServerInfo() Result {
	return c.call(http.MethodGet, []string{"servers", "info"}, nil, nil)
}

// GetAPIDocs returns the API specification the server is using.
func (c *Client) GetAPIDocs() Result {
	return c.call(http.MethodGet, []string{"apiDocs"}, nil, nil)
}
