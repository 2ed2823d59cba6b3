package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zerpy/pkg/api"
	"zerpy/pkg/controller"
	"zerpy/pkg/models"
	"zerpy/pkg/refresh"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}

type paymentResultMsg struct {
	result controller.PaymentResult
}

type serverInfoMsg struct {
	address  string
	ping     api.Result
	info     api.Result
	settings api.Result
	docs     api.Result
}

// --- Send form ---

// sendFormErrors is the validation state of the send form, keyed by field
// name rather than position so adding a field cannot shift the meaning of
// an index.
type sendFormErrors struct {
	Amount      string
	Destination string
}

func (e sendFormErrors) ok() bool {
	return e.Amount == "" && e.Destination == ""
}

const (
	fieldAmount = iota
	fieldDestination
	fieldTag
	sendFieldCount
)

// --- Model ---

type model struct {
	controller  *controller.Controller
	coordinator *refresh.Coordinator
	ledger      *api.Client
	sub         refresh.Subscriber

	accounts  []models.Account
	activeIdx int

	balance        string
	rows           []models.TxRow
	balanceHistory []float64
	lastUpdate     time.Time

	loading       bool
	statusMessage string
	spinner       spinner.Model

	txListIdx    int
	showTxDetail bool

	sending    bool
	confirming bool
	sendInputs []textinput.Model
	sendFocus  int
	formErrors sendFormErrors

	showServerInfo bool
	serverInfo     string

	width  int
	height int
}

func initialModel(ctrl *controller.Controller, coord *refresh.Coordinator, ledger *api.Client) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	inputs := make([]textinput.Model, sendFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[fieldAmount].Placeholder = "Amount (XRP)"
	inputs[fieldAmount].Width = 20
	inputs[fieldDestination].Placeholder = "r..."
	inputs[fieldTag].Placeholder = "Destination tag (optional)"
	inputs[fieldTag].Width = 20

	accounts := ctrl.Accounts()
	activeIdx := 0
	for i, acc := range accounts {
		if acc.Address == ctrl.ActiveAccount() {
			activeIdx = i
			break
		}
	}

	return model{
		controller:  ctrl,
		coordinator: coord,
		ledger:      ledger,
		sub:         coord.Subscribe(),
		accounts:    accounts,
		activeIdx:   activeIdx,
		loading:     true,
		spinner:     s,
		sendInputs:  inputs,
	}
}

func (m model) activeAccount() models.Account {
	return m.accounts[m.activeIdx]
}

func (m model) Init() tea.Cmd {
	m.coordinator.Trigger(m.controller.ActiveAccount())
	return tea.Batch(
		listenForRefresh(m.sub),
		m.spinner.Tick,
	)
}
