package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"zerpy/pkg/api"
	"zerpy/pkg/controller"
	"zerpy/pkg/refresh"
	"zerpy/pkg/utils"
)

func listenForRefresh(sub refresh.Subscriber) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func submitPayment(ctrl *controller.Controller, amount, destination, tag string) tea.Cmd {
	return func() tea.Msg {
		return paymentResultMsg{result: ctrl.SubmitPayment(amount, destination, tag)}
	}
}

func fetchServerInfo(client *api.Client, address string) tea.Cmd {
	return func() tea.Msg {
		return serverInfoMsg{
			address:  address,
			ping:     client.Ping(),
			info:     client.GetServerInfo(),
			settings: client.GetAccountSettings(address, api.LedgerIndexUnset),
			docs:     client.GetAPIDocs(),
		}
	}
}

// validateSendForm checks the user-editable fields and reports problems per
// named field. The destination tag is free-form and optional, so it has no
// validation entry.
func validateSendForm(amount, destination string) sendFormErrors {
	var errs sendFormErrors
	if !utils.IsValidAmount(amount) {
		errs.Amount = "enter a positive XRP amount"
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		errs.Destination = "destination address is required"
	} else if !strings.HasPrefix(destination, "r") {
		errs.Destination = "XRP addresses start with r"
	}
	return errs
}
