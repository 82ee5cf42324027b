package params

import (
	"fmt"
	"strconv"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

const (
	// AutoGroup asks the dispatcher to pick the caller's first real group.
	AutoGroup = "auto"
	// DemoGroupID is the mock group; live calls treat it like AutoGroup.
	DemoGroupID = "12345"

	DefaultCurrency     = "INR"
	DefaultExpenseLimit = 10
	maxExpenseLimit     = 100
)

// ExpenseOptions carries the request-scoped defaults that come from headers.
type ExpenseOptions struct {
	DefaultGroupID  string
	DefaultCurrency string
}

// NormalizeExpense dispatches to the normalizer for a canonical expense tool.
func NormalizeExpense(tool string, args map[string]any, opts ExpenseOptions) (map[string]any, error) {
	args = StripMetadata(args)
	switch tool {
	case "getSplitwiseBalance":
		return GroupOnly(args, opts)
	case "getSplitwiseExpenses":
		return Expenses(args, opts)
	case "getSplitwiseGroups":
		return map[string]any{}, nil
	case "payFriendSplitwise":
		return PayFriend(args, opts)
	case "createSplitwiseExpense":
		return CreateExpense(args, opts)
	default:
		return nil, core.ToolNotFound(tool)
	}
}

type groupArgs struct {
	GroupID any `json:"groupId"`
}

func groupID(raw any, opts ExpenseOptions) string {
	if id := stringOf(raw); id != "" {
		return id
	}
	if opts.DefaultGroupID != "" {
		return opts.DefaultGroupID
	}
	return DemoGroupID
}

// GroupOnly resolves the target group for read tools.
func GroupOnly(args map[string]any, opts ExpenseOptions) (map[string]any, error) {
	var in groupArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	return map[string]any{"groupId": groupID(in.GroupID, opts)}, nil
}

type expensesArgs struct {
	GroupID any `json:"groupId"`
	Limit   any `json:"limit"`
}

// Expenses resolves {groupId, limit}; limit defaults to 10 and must be 1..100.
func Expenses(args map[string]any, opts ExpenseOptions) (map[string]any, error) {
	var in expensesArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	limit := DefaultExpenseLimit
	if s := stringOf(in.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, core.InvalidParameter("limit", "must be an integer")
		}
		if n < 1 || n > maxExpenseLimit {
			return nil, core.InvalidParameter("limit", fmt.Sprintf("must be between 1 and %d", maxExpenseLimit))
		}
		limit = n
	}
	return map[string]any{"groupId": groupID(in.GroupID, opts), "limit": limit}, nil
}

type payFriendArgs struct {
	FriendName string `json:"friendName"`
	Amount     any    `json:"amount"`
	GroupID    any    `json:"groupId"`
}

// PayFriend validates a settle-up request. The friend is matched later
// against the group roster.
func PayFriend(args map[string]any, opts ExpenseOptions) (map[string]any, error) {
	var in payFriendArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	friend, err := required("friendName", in.FriendName, "")
	if err != nil {
		return nil, err
	}
	amount, err := Amount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"friendName": friend,
		"amount":     amount,
		"groupId":    groupID(in.GroupID, opts),
	}, nil
}

type createExpenseArgs struct {
	Description string `json:"description"`
	Amount      any    `json:"amount"`
	GroupID     any    `json:"groupId"`
	Currency    string `json:"currency"`
}

// CreateExpense validates a new equally split expense.
func CreateExpense(args map[string]any, opts ExpenseOptions) (map[string]any, error) {
	var in createExpenseArgs
	if err := decode(args, &in); err != nil {
		return nil, err
	}
	desc, err := required("description", in.Description, "")
	if err != nil {
		return nil, err
	}
	amount, err := Amount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	currency := in.Currency
	if currency == "" {
		currency = opts.DefaultCurrency
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return map[string]any{
		"description": desc,
		"amount":      amount,
		"groupId":     groupID(in.GroupID, opts),
		"currency":    currency,
	}, nil
}
