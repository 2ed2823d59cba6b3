package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"zerpy/pkg/api"
	"zerpy/pkg/refresh"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case refresh.Outcome:
		// Keep listening for the next delivery.
		cmds = append(cmds, listenForRefresh(m.sub))
		m = m.handleRefreshOutcome(msg, &cmds)

	case paymentResultMsg:
		m = m.handlePaymentResult(msg, &cmds)

	case serverInfoMsg:
		m.serverInfo = renderServerInfo(msg)
		m.showServerInfo = true

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case clearStatusMsg:
		m.statusMessage = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleRefreshOutcome applies a completed refresh on the interactive
// goroutine. Superseded deliveries are discarded without a message; the
// refresh affordances re-enable as soon as nothing is left in flight,
// whether or not the result was applied.
func (m model) handleRefreshOutcome(o refresh.Outcome, cmds *[]tea.Cmd) model {
	m.loading = m.coordinator.InFlight()

	if !m.coordinator.IsCurrent(o) {
		return m
	}

	if o.Err != nil {
		// Previous snapshot stays on screen.
		m.statusMessage = "Refresh failed: " + o.Err.Error()
		*cmds = append(*cmds, clearStatusAfter(4*time.Second))
		return m
	}

	if !m.controller.ApplySnapshot(o.Snapshot) {
		return m
	}

	if balance, err := m.controller.Balance(); err == nil {
		m.balance = balance
		if v, err := strconv.ParseFloat(balance, 64); err == nil {
			m.balanceHistory = append(m.balanceHistory, v)
			if len(m.balanceHistory) > 120 {
				m.balanceHistory = m.balanceHistory[len(m.balanceHistory)-120:]
			}
		}
	}
	m.rows = m.controller.FormattedTransactions()
	if m.txListIdx >= len(m.rows) {
		m.txListIdx = 0
	}
	if len(m.rows) == 0 {
		// The row the detail view was showing no longer exists.
		m.showTxDetail = false
	}
	m.lastUpdate = time.Now()
	return m
}

func (m model) handlePaymentResult(msg paymentResultMsg, cmds *[]tea.Cmd) model {
	if msg.result.Status == api.StatusOK {
		m.statusMessage = "Payment sent!"
		// Clear the form only on confirmed success.
		for i := range m.sendInputs {
			m.sendInputs[i].SetValue("")
		}
		m.sending = false
		m.confirming = false
		m.loading = true
		m.coordinator.Trigger(m.controller.ActiveAccount())
	} else {
		// Inputs stay as typed so the user can correct and retry.
		message := msg.result.Message
		if message == "" {
			message = "something went wrong"
		}
		m.statusMessage = "Payment failed: " + message
		m.confirming = false
	}
	*cmds = append(*cmds, clearStatusAfter(4*time.Second))
	return m
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sending {
		return m.handleSendFormKey(msg)
	}

	if m.showServerInfo {
		switch msg.String() {
		case "q", "esc", "s":
			m.showServerInfo = false
		}
		return m, nil
	}

	if m.showTxDetail {
		return m.handleTxDetailKey(msg)
	}

	var cmds []tea.Cmd
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		// The coordinator tolerates overlapping requests; the stale guard
		// sorts out delivery, so no need to gate on m.loading here.
		m.loading = true
		m.coordinator.Trigger(m.controller.ActiveAccount())
		cmds = append(cmds, m.spinner.Tick)

	case "tab", "right", "l":
		m = m.cycleAccount(1)
		cmds = append(cmds, m.spinner.Tick)
	case "shift+tab", "left", "h":
		m = m.cycleAccount(-1)
		cmds = append(cmds, m.spinner.Tick)

	case "c":
		if err := clipboard.WriteAll(m.activeAccount().Address); err != nil {
			m.statusMessage = "Failed to copy to clipboard"
		} else {
			m.statusMessage = "Address copied to clipboard!"
		}
		cmds = append(cmds, clearStatusAfter(2*time.Second))

	case "up", "k":
		if m.txListIdx > 0 {
			m.txListIdx--
		}
	case "down", "j":
		if m.txListIdx < len(m.rows)-1 {
			m.txListIdx++
		}
	case "enter":
		if len(m.rows) > 0 {
			m.showTxDetail = true
		}

	case "s":
		m.sending = true
		m.confirming = false
		m.formErrors = sendFormErrors{}
		m.sendFocus = fieldAmount
		cmds = append(cmds, m.focusSendField(fieldAmount))

	case "i":
		cmds = append(cmds, fetchServerInfo(m.ledger, m.controller.ActiveAccount()))
	}

	return m, tea.Batch(cmds...)
}

func (m model) cycleAccount(delta int) model {
	if len(m.accounts) < 2 {
		return m
	}
	m.activeIdx = (m.activeIdx + delta + len(m.accounts)) % len(m.accounts)
	if err := m.controller.SetActiveAccount(m.activeAccount().Address); err != nil {
		m.statusMessage = err.Error()
		return m
	}
	// Switching accounts triggers a refresh; whatever was in flight for the
	// previous account gets discarded on delivery.
	m.loading = true
	m.txListIdx = 0
	m.showTxDetail = false
	m.balanceHistory = nil
	m.coordinator.Trigger(m.controller.ActiveAccount())
	return m
}

func (m model) handleTxDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg.String() {
	case "q", "esc", "backspace":
		m.showTxDetail = false

	case "o":
		if err := m.controller.OpenTransactionInBrowser(m.txListIdx); err != nil {
			m.statusMessage = fmt.Sprintf("Failed to open browser: %v", err)
		} else {
			m.statusMessage = "Opened in browser"
		}
		cmds = append(cmds, clearStatusAfter(2*time.Second))

	case "y":
		if err := clipboard.WriteAll(m.controller.TxIDByIndex(m.txListIdx)); err != nil {
			m.statusMessage = "Failed to copy to clipboard"
		} else {
			m.statusMessage = "Transaction ID copied!"
		}
		cmds = append(cmds, clearStatusAfter(2*time.Second))

	case "a":
		if err := clipboard.WriteAll(m.controller.TxAddressByIndex(m.txListIdx)); err != nil {
			m.statusMessage = "Failed to copy to clipboard"
		} else {
			m.statusMessage = "Address copied!"
		}
		cmds = append(cmds, clearStatusAfter(2*time.Second))
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleSendFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.confirming {
		switch msg.String() {
		case "y", "enter":
			m.confirming = false
			amount := m.sendInputs[fieldAmount].Value()
			destination := m.sendInputs[fieldDestination].Value()
			tag := m.sendInputs[fieldTag].Value()
			m.statusMessage = "Submitting payment..."
			return m, submitPayment(m.controller, amount, destination, tag)
		case "n", "esc":
			m.confirming = false
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		// Leave the form; typed values are preserved.
		m.sending = false
		return m, nil

	case "tab", "down":
		m.sendFocus = (m.sendFocus + 1) % sendFieldCount
		cmds = append(cmds, m.focusSendField(m.sendFocus))
	case "shift+tab", "up":
		m.sendFocus = (m.sendFocus + sendFieldCount - 1) % sendFieldCount
		cmds = append(cmds, m.focusSendField(m.sendFocus))

	case "enter":
		m.formErrors = validateSendForm(
			m.sendInputs[fieldAmount].Value(),
			m.sendInputs[fieldDestination].Value(),
		)
		if m.formErrors.ok() {
			m.confirming = true
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.sendInputs[m.sendFocus], cmd = m.sendInputs[m.sendFocus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) focusSendField(idx int) tea.Cmd {
	for i := range m.sendInputs {
		if i == idx {
			continue
		}
		m.sendInputs[i].Blur()
	}
	return m.sendInputs[idx].Focus()
}
