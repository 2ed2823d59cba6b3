package controller

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"zerpy/pkg/api"
	"zerpy/pkg/config"
	"zerpy/pkg/logger"
	"zerpy/pkg/models"
	"zerpy/pkg/utils"
)

// ExplorerBaseURL is where transaction details open in the browser.
var ExplorerBaseURL = "https://test.bithomp.com/explorer"

const txSuccessResult = "tesSUCCESS"

// timestampLayout matches the outcome timestamps the server emits.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// LedgerAPI is the slice of the ledger client the controller needs.
// Satisfied by *api.Client; mocked in tests.
type LedgerAPI interface {
	GetAccountInfo(address string, ledgerIndex int) api.Result
	GetAccountTransactions(address string, ledgerIndex int) api.Result
	SubmitPayment(source, destination, amount, apiKey, destinationTag, sourceTag string, submit bool) api.Result
}

// PaymentResult is the outcome of a payment submission, in the same tagged
// shape the ledger client uses. Never a panic, never a Go error.
type PaymentResult struct {
	Status  string
	Message string
}

// Controller owns the active account and the snapshot cache. Snapshot
// fetching is side-effect free so it can run on a worker goroutine; only
// ApplySnapshot mutates state, under the lock.
type Controller struct {
	cfg *config.Config
	api LedgerAPI

	mu       sync.RWMutex
	active   string
	snapshot *models.Snapshot

	openURL func(string) error
}

func NewController(cfg *config.Config, ledger LedgerAPI) *Controller {
	c := &Controller{
		cfg:     cfg,
		api:     ledger,
		openURL: openBrowser,
	}
	if addrs := cfg.Addresses(); len(addrs) > 0 {
		c.active = addrs[0]
	}
	return c
}

// Accounts lists the configured accounts in selector order.
func (c *Controller) Accounts() []models.Account {
	accounts := make([]models.Account, 0, len(c.cfg.Accounts))
	for _, addr := range c.cfg.Addresses() {
		entry := c.cfg.Accounts[addr]
		accounts = append(accounts, models.Account{
			Address: addr,
			APIKey:  entry.APIKey,
			Alias:   entry.Alias,
		})
	}
	return accounts
}

func (c *Controller) ActiveAccount() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// SetActiveAccount switches the selection. It does not fetch; the refresh
// coordinator decides when to do that.
func (c *Controller) SetActiveAccount(address string) error {
	if _, ok := c.cfg.Accounts[address]; !ok {
		return fmt.Errorf("unknown account %s", address)
	}
	c.mu.Lock()
	c.active = address
	c.mu.Unlock()
	return nil
}

// FetchSnapshot performs both per-account queries and returns a complete
// snapshot or an error, never a partial one. It does not touch controller
// state.
func (c *Controller) FetchSnapshot(address string) (*models.Snapshot, error) {
	infoRes := c.api.GetAccountInfo(address, api.LedgerIndexUnset)
	if !infoRes.OK() {
		return nil, fmt.Errorf("account info: %s", infoRes.Message)
	}
	txRes := c.api.GetAccountTransactions(address, api.LedgerIndexUnset)
	if !txRes.OK() {
		return nil, fmt.Errorf("transactions: %s", txRes.Message)
	}

	var info models.AccountInfo
	if err := infoRes.Decode(&info); err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}
	var history models.TransactionHistory
	if err := txRes.Decode(&history); err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	return &models.Snapshot{
		Address:   address,
		Info:      info,
		History:   history,
		FetchedAt: time.Now(),
	}, nil
}

// ApplySnapshot installs a fetched snapshot if it still describes the active
// account. Returns false when the snapshot is stale and was discarded.
func (c *Controller) ApplySnapshot(s *models.Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Address != c.active {
		logger.Debug("Discarding stale snapshot for %s (active: %s)", s.Address, c.active)
		return false
	}
	c.snapshot = s
	return true
}

func (c *Controller) Snapshot() *models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Controller) HasSnapshot() bool {
	return c.Snapshot() != nil
}

// Balance formats the snapshot's drops balance as XRP with six decimals.
// Requires a successful refresh first.
func (c *Controller) Balance() (string, error) {
	s := c.Snapshot()
	if s == nil {
		return "", fmt.Errorf("no snapshot fetched yet")
	}
	return utils.FormatDrops(s.Info.AccountData.Balance)
}

// FormattedTransactions derives one display row per successfully validated
// transaction, preserving upstream (reverse-chronological) order. Direction
// and counterparty come from comparing the source address to the snapshot's
// account.
func (c *Controller) FormattedTransactions() []models.TxRow {
	s := c.Snapshot()
	if s == nil {
		return nil
	}

	var rows []models.TxRow
	for _, tx := range s.History.Transactions {
		if tx.Outcome.Result != txSuccessResult {
			continue
		}

		amount, err := strconv.ParseFloat(tx.Outcome.DeliveredAmount.Value, 64)
		if err != nil {
			logger.Warn("Skipping transaction %s with bad amount %q", tx.ID, tx.Outcome.DeliveredAmount.Value)
			continue
		}

		row := models.TxRow{
			ID:        tx.ID,
			Timestamp: formatTimestamp(tx.Outcome.Timestamp),
		}
		if tx.Specification.Source.Address == s.Address {
			row.Direction = "↑"
			row.Amount = -amount
			row.Counterparty = tx.Specification.Destination.Address
		} else {
			row.Direction = "↓"
			row.Amount = amount
			row.Counterparty = tx.Specification.Source.Address
		}
		rows = append(rows, row)
	}
	return rows
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(timestampLayout, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// SubmitPayment sends amount XRP from the active account. The amount is the
// user's decimal text, passed through verbatim. Empty destination tags are
// omitted from the request.
func (c *Controller) SubmitPayment(amount, destination, destinationTag string) PaymentResult {
	active := c.ActiveAccount()
	entry, ok := c.cfg.Accounts[active]
	if !ok {
		return PaymentResult{Status: api.StatusError, Message: fmt.Sprintf("unknown account %s", active)}
	}

	res := c.api.SubmitPayment(active, destination, amount, entry.APIKey, destinationTag, "", true)
	if !res.OK() {
		message := res.Message
		if message == "" {
			message = "payment submission failed"
		}
		logger.Error("Payment from %s to %s failed: %s", active, destination, message)
		return PaymentResult{Status: api.StatusError, Message: message}
	}
	logger.Info("Payment of %s XRP from %s to %s submitted", amount, active, destination)
	return PaymentResult{Status: api.StatusOK}
}

// The index accessors operate on the rendered row list; the presentation
// layer only ever indexes rows it rendered itself.

func (c *Controller) TxIDByIndex(i int) string {
	return c.FormattedTransactions()[i].ID
}

func (c *Controller) TxAddressByIndex(i int) string {
	return c.FormattedTransactions()[i].Counterparty
}

func (c *Controller) TxExplorerURL(i int) string {
	return fmt.Sprintf("%s/%s", ExplorerBaseURL, c.TxIDByIndex(i))
}

func (c *Controller) OpenTransactionInBrowser(i int) error {
	return c.openURL(c.TxExplorerURL(i))
}

// openBrowser opens the specified URL in the default browser.
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default: // "linux", "freebsd", "openbsd", "netbsd"
		cmd = "xdg-open"
	}
	args = append(args, url)
	return exec.Command(cmd, args...).Start()
}
