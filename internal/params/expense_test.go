package params

import (
	"testing"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

func TestExpenseGroupDefaults(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		opts ExpenseOptions
		want string
	}{
		{name: "body wins", args: map[string]any{"groupId": 777}, opts: ExpenseOptions{DefaultGroupID: "1"}, want: "777"},
		{name: "header default", args: map[string]any{}, opts: ExpenseOptions{DefaultGroupID: "42"}, want: "42"},
		{name: "demo group", args: map[string]any{}, want: DemoGroupID},
		{name: "auto", args: map[string]any{"groupId": "auto"}, want: AutoGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NormalizeExpense("getSplitwiseBalance", tt.args, tt.opts)
			if err != nil {
				t.Fatalf("NormalizeExpense: %v", err)
			}
			if out["groupId"] != tt.want {
				t.Fatalf("want %q, got %v", tt.want, out["groupId"])
			}
		})
	}
}

func TestExpensesLimit(t *testing.T) {
	out, err := Expenses(map[string]any{}, ExpenseOptions{})
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if out["limit"] != DefaultExpenseLimit {
		t.Fatalf("want default limit %d, got %v", DefaultExpenseLimit, out["limit"])
	}

	out, err = Expenses(map[string]any{"limit": "3"}, ExpenseOptions{})
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if out["limit"] != 3 {
		t.Fatalf("want limit 3, got %v", out["limit"])
	}

	for _, bad := range []any{0, 101, "many", 2.5} {
		_, err := Expenses(map[string]any{"limit": bad}, ExpenseOptions{})
		wantCode(t, err, core.CodeInvalidParameter, "limit")
	}
}

func TestPayFriend(t *testing.T) {
	out, err := PayFriend(map[string]any{"friendName": " Sandeep ", "amount": 800, "chatId": "c1"}, ExpenseOptions{})
	if err != nil {
		t.Fatalf("PayFriend: %v", err)
	}
	if out["friendName"] != "Sandeep" || out["amount"] != "800" || out["groupId"] != DemoGroupID {
		t.Fatalf("unexpected payload %v", out)
	}

	_, err = PayFriend(map[string]any{"amount": "1"}, ExpenseOptions{})
	wantCode(t, err, core.CodeMissingParameter, "friendName")
	_, err = PayFriend(map[string]any{"friendName": "Priya", "amount": "-2"}, ExpenseOptions{})
	wantCode(t, err, core.CodeInvalidParameter, "amount")
}

func TestCreateExpense(t *testing.T) {
	out, err := CreateExpense(map[string]any{"description": "Snacks", "amount": "250.00"}, ExpenseOptions{DefaultCurrency: "USD"})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if out["currency"] != "USD" || out["amount"] != "250" {
		t.Fatalf("unexpected payload %v", out)
	}

	out, err = CreateExpense(map[string]any{"description": "Snacks", "amount": 1}, ExpenseOptions{})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if out["currency"] != DefaultCurrency {
		t.Fatalf("want %q, got %v", DefaultCurrency, out["currency"])
	}

	_, err = CreateExpense(map[string]any{"amount": 1}, ExpenseOptions{})
	wantCode(t, err, core.CodeMissingParameter, "description")
	_, err = NormalizeExpense("splitBill", nil, ExpenseOptions{})
	wantCode(t, err, core.CodeToolNotFound, "")
}
