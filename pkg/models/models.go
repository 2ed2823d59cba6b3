package models

import "time"

// Account holds the runtime state for a configured wallet account.
type Account struct {
	Address string
	APIKey  string
	Alias   string
}

// DisplayName returns the alias when one is set, otherwise the address.
func (a Account) DisplayName() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Address
}

// Amount is a currency-tagged value as the ledger server reports it. Value
// stays a string end to end so amounts round-trip exactly.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// AccountData is the balance-carrying part of an account info response.
// Balance is in drops (1 XRP = 1e6 drops), serialized as a decimal string.
type AccountData struct {
	Balance  string `json:"Balance"`
	Sequence uint32 `json:"Sequence"`
}

// AccountInfo is the account info response body.
type AccountInfo struct {
	AccountData AccountData `json:"account_data"`
}

// TxParty identifies one side of a payment.
type TxParty struct {
	Address string `json:"address"`
	Tag     uint32 `json:"tag,omitempty"`
}

// TxSpecification describes the intent of a transaction.
type TxSpecification struct {
	Source      TxParty `json:"source"`
	Destination TxParty `json:"destination"`
}

// TxOutcome describes the validated result of a transaction.
type TxOutcome struct {
	Result          string `json:"result"`
	Timestamp       string `json:"timestamp"`
	DeliveredAmount Amount `json:"deliveredAmount"`
}

// Transaction is one entry of an account transaction history response.
type Transaction struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Specification TxSpecification `json:"specification"`
	Outcome       TxOutcome       `json:"outcome"`
}

// TransactionHistory is the account transactions response body.
type TransactionHistory struct {
	Transactions []Transaction `json:"transactions"`
}

// Snapshot is the cached pair of per-account query results, tagged with the
// address it was fetched for. It is replaced wholesale on every successful
// refresh and never updated in place.
type Snapshot struct {
	Address   string
	Info      AccountInfo
	History   TransactionHistory
	FetchedAt time.Time
}

// TxRow is one rendered transaction line: successful transactions only, with
// the sign and counterparty resolved against the owning account.
type TxRow struct {
	ID           string
	Direction    string // "↑" outgoing, "↓" incoming
	Amount       float64
	Counterparty string
	Timestamp    string
}
