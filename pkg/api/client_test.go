package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"zerpy/pkg/models"
)

func TestGetAccountInfo(t *testing.T) {
	var gotPath, gotLedgerIndex string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLedgerIndex = r.Header.Get("ledger_index")
		_, _ = w.Write([]byte(`{"account_data": {"Balance": "31983471", "Sequence": 7}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	res := c.GetAccountInfo("rAAA", LedgerIndexUnset)

	assert.True(t, res.OK())
	assert.Equal(t, "/v1/accounts/rAAA/info", gotPath)
	assert.Empty(t, gotLedgerIndex, "ledger_index header must be absent when unset")

	var info models.AccountInfo
	assert.NoError(t, res.Decode(&info))
	assert.Equal(t, "31983471", info.AccountData.Balance)
}

func TestLedgerIndexTravelsAsHeader(t *testing.T) {
	var gotHeader, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("ledger_index")
		gotQuery = r.URL.Query().Get("ledger_index")
		_, _ = w.Write([]byte(`{"transactions": []}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	res := c.GetAccountTransactions("rAAA", 44276890)

	assert.True(t, res.OK())
	assert.Equal(t, "44276890", gotHeader)
	assert.Empty(t, gotQuery, "ledger_index must not leak into the query string")
}

func TestTransportErrorNeverPanics(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	res := c.Ping()

	assert.Equal(t, StatusError, res.Status)
	assert.NotEmpty(t, res.Message)
}

func TestNon2xxStatuses(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		message string
	}{
		{"Known Reason Phrase", http.StatusNotFound, ``, "404 Not Found"},
		{"Unmapped Code", 599, ``, "599"},
		{"Server Provided Message", http.StatusBadRequest, `{"message": "Invalid address"}`, "Invalid address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			res := NewClient(server.URL).GetTransaction("ABC123")
			assert.Equal(t, StatusError, res.Status)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestEmptyBodyIsOKWithNoContentMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := NewClient(server.URL).Ping()
	assert.True(t, res.OK())
	assert.Equal(t, "No content", res.Message)
}

func TestMalformedJSONBodyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	res := NewClient(server.URL).GetServerInfo()
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "invalid JSON")
}

func TestSubmitPayment(t *testing.T) {
	var gotAuth string
	var gotBody map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"result": "tesSUCCESS"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	res := c.SubmitPayment("rAAA", "rBBB", "10.000001", "my-api-key", "12345", "", true)

	assert.True(t, res.OK())
	assert.Equal(t, "Bearer my-api-key", gotAuth)

	// The amount must appear verbatim as a JSON string.
	assert.Contains(t, string(gotBody["payment"]), `"value":"10.000001"`)
	assert.Equal(t, "true", string(gotBody["submit"]))

	var payment struct {
		SourceAddress  string          `json:"source_address"`
		DestinationTag string          `json:"destination_tag"`
		SourceAmount   models.Amount   `json:"source_amount"`
		Fields         map[string]bool `json:"-"`
	}
	assert.NoError(t, json.Unmarshal(gotBody["payment"], &payment))
	assert.Equal(t, "rAAA", payment.SourceAddress)
	assert.Equal(t, "12345", payment.DestinationTag)
	assert.Equal(t, "XRP", payment.SourceAmount.Currency)
}

func TestSubmitPaymentOmitsEmptyTags(t *testing.T) {
	var rawPayment string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		rawPayment = string(body["payment"])
		_, _ = w.Write([]byte(`{"result": "tesSUCCESS"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	res := c.SubmitPayment("rAAA", "rBBB", "10.5", "key", "", "", true)

	assert.True(t, res.OK())
	assert.NotContains(t, rawPayment, "destination_tag")
	assert.NotContains(t, rawPayment, "source_tag")
}
