package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"zerpy/pkg/utils"
)

func (m model) View() string {
	if m.showServerInfo {
		return m.serverInfoView()
	}
	if m.showTxDetail && m.txListIdx < len(m.rows) {
		return m.txDetailView()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" Zerpy %s ", Version)))
	b.WriteString("\n\n")

	b.WriteString(m.accountLine())
	b.WriteString("\n\n")
	b.WriteString(m.balanceSection())
	b.WriteString("\n")
	b.WriteString(m.transactionsSection())

	if m.sending {
		b.WriteString("\n")
		b.WriteString(m.sendFormView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.helpLine())

	return b.String()
}

func (m model) accountLine() string {
	acc := m.activeAccount()
	label := acc.Address
	if acc.Alias != "" {
		label = fmt.Sprintf("%s (%s)", acc.Alias, acc.Address)
	}
	position := subtleStyle.Render(fmt.Sprintf("[%d/%d]", m.activeIdx+1, len(m.accounts)))
	return fmt.Sprintf("Address %s  %s", position, label)
}

func (m model) balanceSection() string {
	balance := "—"
	if m.balance != "" {
		balance = m.balance + " XRP"
	}
	line := "Balance\n" + balanceStyle.Render(balance)
	if m.loading {
		line += "  " + m.spinner.View()
	}

	if len(m.balanceHistory) > 1 && m.width > 20 {
		graph := asciigraph.Plot(m.balanceHistory,
			asciigraph.Height(4),
			asciigraph.Width(min(m.width-10, 60)),
		)
		line += "\n" + subtleStyle.Render(graph)
	}
	return line
}

func (m model) transactionsSection() string {
	var rows []string
	rows = append(rows, "Transactions")

	if len(m.rows) == 0 {
		if m.balance == "" {
			rows = append(rows, subtleStyle.Render("  (waiting for first refresh)"))
		} else {
			rows = append(rows, subtleStyle.Render("  (no validated transactions)"))
		}
		return strings.Join(rows, "\n")
	}

	for i, row := range m.rows {
		style := incomingStyle
		if row.Amount < 0 {
			style = outgoingStyle
		}
		line := fmt.Sprintf("%s %s XRP  %s  %s",
			row.Direction,
			utils.FormatSignedAmount(row.Amount),
			utils.TruncateString(row.Counterparty, 24),
			row.Timestamp,
		)
		if i == m.txListIdx {
			rows = append(rows, selectedRowStyle.Render("> "+line))
		} else {
			rows = append(rows, style.Render("  "+line))
		}
	}
	return strings.Join(rows, "\n")
}

func (m model) txDetailView() string {
	row := m.rows[m.txListIdx]
	direction := "Incoming"
	if row.Amount < 0 {
		direction = "Outgoing"
	}

	content := strings.Join([]string{
		fmt.Sprintf("ID:           %s", row.ID),
		fmt.Sprintf("Direction:    %s %s", direction, row.Direction),
		fmt.Sprintf("Amount:       %s XRP", utils.FormatSignedAmount(row.Amount)),
		fmt.Sprintf("Counterparty: %s", row.Counterparty),
		fmt.Sprintf("Timestamp:    %s", row.Timestamp),
	}, "\n")

	return titleStyle.Render(" Transaction ") + "\n\n" +
		boxStyle.Render(content) + "\n\n" +
		m.statusLine() + "\n" +
		subtleStyle.Render("o: open in browser • y: copy ID • a: copy address • esc: back")
}

func (m model) serverInfoView() string {
	return titleStyle.Render(" Server info ") + "\n\n" +
		boxStyle.Render(m.serverInfo) + "\n\n" +
		subtleStyle.Render("esc: back")
}

func renderServerInfo(msg serverInfoMsg) string {
	var b strings.Builder

	if msg.ping.OK() {
		b.WriteString("Node:     online\n")
	} else {
		b.WriteString("Node:     unreachable - " + msg.ping.Message + "\n")
	}
	if msg.docs.OK() {
		b.WriteString("API docs: available\n")
	} else {
		b.WriteString("API docs: " + msg.docs.Message + "\n")
	}

	b.WriteString("\nServer state\n")
	if msg.info.OK() {
		b.WriteString(string(msg.info.Raw))
	} else {
		b.WriteString("Error: " + msg.info.Message)
	}

	b.WriteString("\n\nSettings for " + msg.address + "\n")
	if msg.settings.OK() {
		b.WriteString(string(msg.settings.Raw))
	} else {
		b.WriteString("Error: " + msg.settings.Message)
	}

	return b.String()
}

func (m model) sendFormView() string {
	var lines []string
	lines = append(lines, "Send XRP from "+m.activeAccount().Address)
	lines = append(lines, "Amount:      "+m.sendInputs[fieldAmount].View())
	if m.formErrors.Amount != "" {
		lines = append(lines, errStyle.Render("             "+m.formErrors.Amount))
	}
	lines = append(lines, "Destination: "+m.sendInputs[fieldDestination].View())
	if m.formErrors.Destination != "" {
		lines = append(lines, errStyle.Render("             "+m.formErrors.Destination))
	}
	lines = append(lines, "Tag:         "+m.sendInputs[fieldTag].View())

	if m.confirming {
		lines = append(lines, "")
		lines = append(lines, errStyle.Render(fmt.Sprintf(
			"Send %s XRP to %s? (y/n)",
			m.sendInputs[fieldAmount].Value(),
			m.sendInputs[fieldDestination].Value(),
		)))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m model) statusLine() string {
	if m.statusMessage == "" {
		return ""
	}
	return m.statusMessage
}

func (m model) helpLine() string {
	if m.sending {
		return subtleStyle.Render("tab: next field • enter: review • esc: close form")
	}
	return subtleStyle.Render("r: refresh • tab: switch account • s: send • c: copy address • enter: details • i: server info • q: quit")
}
