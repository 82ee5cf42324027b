package expensegw

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/splitwise"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

func money(currency string, amount float64) string {
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	if currency == "" {
		return fmt.Sprintf("₹%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// moneyText keeps the caller's amount string as given.
func moneyText(currency, amount string) string {
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sym + amount
	}
	return currency + " " + amount
}

func currencyOf(m splitwise.Member) string {
	if len(m.Balance) > 0 {
		return m.Balance[0].CurrencyCode
	}
	return ""
}

// balanceText summarizes me's position in group: who owes me when I am
// owed, the total when I owe, else settled.
func balanceText(group *splitwise.Group, me splitwise.Member) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's your balance in %s: ", group.Name)
	net := me.Net()
	switch {
	case net > 0:
		fmt.Fprintf(&b, "You are owed %s.", money(currencyOf(me), net))
		for _, m := range group.Members {
			if m.ID == me.ID {
				continue
			}
			if owed := m.Net(); owed < 0 {
				fmt.Fprintf(&b, " %s owes you %s.", m.FirstName, money(currencyOf(m), math.Abs(owed)))
			}
		}
	case net < 0:
		fmt.Fprintf(&b, "You owe %s.", money(currencyOf(me), math.Abs(net)))
	default:
		b.WriteString("You're all settled up!")
	}
	return b.String()
}

// currentMember finds userID in the roster, falling back to the first member.
func currentMember(group *splitwise.Group, userID int64) splitwise.Member {
	if m, ok := group.Member(userID); ok {
		return m
	}
	if len(group.Members) > 0 {
		return group.Members[0]
	}
	return splitwise.Member{}
}

func expensesText(expenses []splitwise.Expense) string {
	if len(expenses) == 0 {
		return "No expenses found in this group."
	}
	lines := make([]string, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, fmt.Sprintf("%s: %s (%s, paid by %s)",
			e.Description, moneyText(e.CurrencyCode, e.Cost), expenseDate(e.Date), e.PaidBy()))
	}
	return "Recent expenses: " + strings.Join(lines, ", ")
}

func expenseDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("2 Jan 2006")
}

func groupsText(groups []splitwise.Group) string {
	if len(groups) == 0 {
		return "You are not a member of any Splitwise group."
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s (ID: %s)", g.Name, strconv.FormatInt(g.ID, 10)))
	}
	return "Your groups: " + strings.Join(parts, ", ")
}

func payText(friend, currency, amount string, group *splitwise.Group) string {
	return fmt.Sprintf("Ready to settle %s with %s in %s. Say 'confirm' to proceed.",
		moneyText(currency, amount), friend, group.Name)
}
