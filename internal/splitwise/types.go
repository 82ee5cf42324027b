package splitwise

import (
	"strconv"
	"strings"
)

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

type Balance struct {
	CurrencyCode string `json:"currency_code"`
	Amount       string `json:"amount"`
}

type Member struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Balance   []Balance `json:"balance"`
}

// Net is the member's first balance entry as a number; zero when absent or
// unparsable.
func (m Member) Net() float64 {
	if len(m.Balance) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(m.Balance[0].Amount, 64)
	if err != nil {
		return 0
	}
	return f
}

type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	GroupType string    `json:"group_type,omitempty"`
	Members   []Member  `json:"members"`
	Expenses  []Expense `json:"expenses,omitempty"`
}

// Member finds a member by id.
func (g *Group) Member(id int64) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// MemberByFirstName matches case-insensitively on first name.
func (g *Group) MemberByFirstName(name string) (Member, bool) {
	for _, m := range g.Members {
		if strings.EqualFold(m.FirstName, strings.TrimSpace(name)) {
			return m, true
		}
	}
	return Member{}, false
}

// FirstNames lists member first names in roster order.
func (g *Group) FirstNames() []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, m.FirstName)
	}
	return out
}

type Expense struct {
	ID           int64  `json:"id"`
	GroupID      int64  `json:"group_id,omitempty"`
	Description  string `json:"description"`
	Cost         string `json:"cost"`
	CurrencyCode string `json:"currency_code"`
	Date         string `json:"date"`
	CreatedBy    *User  `json:"created_by,omitempty"`
}

// PaidBy is the creator's first name or "Unknown".
func (e Expense) PaidBy() string {
	if e.CreatedBy == nil || e.CreatedBy.FirstName == "" {
		return "Unknown"
	}
	return e.CreatedBy.FirstName
}
