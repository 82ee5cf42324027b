package expensegw

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/splitwise"
)

const (
	mockUserID = 1001
	demoSuffix = " (Demo data)"
	demoNote   = "Demo data. Configure a Splitwise token for real data."
)

// mockGroup returns a fresh copy of the demo group so callers may not
// alter shared state.
func mockGroup() *splitwise.Group {
	return &splitwise.Group{
		ID:        12345,
		Name:      "Goa Trip 2025",
		GroupType: "trip",
		Members: []splitwise.Member{
			{ID: mockUserID, FirstName: "Rahul", LastName: "You", Email: "rahul@example.com",
				Balance: []splitwise.Balance{{CurrencyCode: "INR", Amount: "2100.00"}}},
			{ID: 1002, FirstName: "Sandeep", LastName: "Kumar", Email: "sandeep@example.com",
				Balance: []splitwise.Balance{{CurrencyCode: "INR", Amount: "-800.00"}}},
			{ID: 1003, FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com",
				Balance: []splitwise.Balance{{CurrencyCode: "INR", Amount: "-650.00"}}},
		},
		Expenses: []splitwise.Expense{
			{ID: 5001, Description: "Hotel Stay - Goa", Cost: "4000.00", CurrencyCode: "INR",
				Date: "2025-06-15T12:00:00Z", CreatedBy: &splitwise.User{FirstName: "Rahul", LastName: "You"}},
			{ID: 5002, Description: "Dinner at Beach Resort", Cost: "2400.00", CurrencyCode: "INR",
				Date: "2025-06-16T19:30:00Z", CreatedBy: &splitwise.User{FirstName: "Sandeep", LastName: "Kumar"}},
		},
	}
}

// mock answers a normalized expense call from the demo group. Every tool
// succeeds except a payment to someone outside the group.
func mock(tool string, processed map[string]any, cfg Config) core.ToolResult {
	group := mockGroup()
	var data map[string]any

	switch tool {
	case "getSplitwiseBalance":
		me := currentMember(group, mockUserID)
		data = map[string]any{
			"text":        balanceText(group, me) + demoSuffix,
			"group":       group,
			"currentUser": me,
		}

	case "getSplitwiseExpenses":
		expenses := group.Expenses
		if limit, ok := processed["limit"].(int); ok && limit < len(expenses) {
			expenses = expenses[:limit]
		}
		data = map[string]any{
			"text":     expensesText(expenses) + demoSuffix,
			"expenses": expenses,
		}

	case "getSplitwiseGroups":
		groups := []splitwise.Group{*group}
		data = map[string]any{
			"text":   groupsText(groups) + demoSuffix,
			"groups": groups,
		}

	case "payFriendSplitwise":
		friendName, amount := str(processed["friendName"]), str(processed["amount"])
		friend, ok := group.MemberByFirstName(friendName)
		if !ok {
			return core.Fail(friendNotFound(friendName, group), map[string]any{"source": core.SourceDemo})
		}
		data = map[string]any{
			"text": payText(friendName, cfg.DefaultCurrency, amount, group) + demoSuffix,
			"pendingPayment": pendingPayment(friendName, friend, amount, strconv.FormatInt(group.ID, 10), group),
		}

	case "createSplitwiseExpense":
		desc, amount := str(processed["description"]), str(processed["amount"])
		currency := str(processed["currency"])
		data = map[string]any{
			"text": fmt.Sprintf("Demo: Expense %q for %s would be created (Configure token for real creation)",
				desc, moneyText(currency, amount)),
			"expense": splitwise.Expense{
				ID:           int64(rand.IntN(10000)),
				Description:  desc,
				Cost:         amount,
				CurrencyCode: currency,
				Date:         time.Now().UTC().Format(time.RFC3339),
				CreatedBy:    &splitwise.User{FirstName: "You"},
			},
		}

	default:
		return core.Fail(core.ToolNotFound(tool), nil)
	}

	data["source"] = core.SourceDemo
	data["note"] = demoNote
	return core.Succeed(data)
}

func pendingPayment(name string, friend splitwise.Member, amount, groupID string, group *splitwise.Group) map[string]any {
	return map[string]any{
		"friend":    name,
		"friendId":  friend.ID,
		"amount":    amount,
		"groupId":   groupID,
		"groupName": group.Name,
	}
}

func friendNotFound(name string, group *splitwise.Group) *core.Error {
	names := group.FirstNames()
	return &core.Error{
		Code:    core.CodeInvalidParameter,
		Message: fmt.Sprintf("%s not found in %s. Available members: %s", name, group.Name, strings.Join(names, ", ")),
		Field:   "friendName",
		Reason:  "not a member of the group",
		Context: map[string]any{"availableMembers": names},
	}
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
