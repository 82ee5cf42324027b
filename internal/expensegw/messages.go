package expensegw

import (
	"net/http"

	"github.com/Adi-21/bhidi0xgasless/internal/splitwise"
)

// suggestions collects hints for a failed Splitwise call: first for the
// status, then for the tool.
func suggestions(statusCode int, tool string) []string {
	out := []string{}
	switch statusCode {
	case http.StatusUnauthorized:
		out = append(out,
			"Check the Splitwise token in the x-splitwise-key header",
			"Generate a new API key at secure.splitwise.com/apps if it was revoked",
		)
	case http.StatusForbidden:
		out = append(out,
			"Make sure the token's account is a member of the group",
			"Check the token has access to this resource",
		)
	case http.StatusNotFound:
		out = append(out,
			"Verify the groupId",
			"Call getSplitwiseGroups to list your groups",
		)
	case http.StatusTooManyRequests:
		out = append(out,
			"Wait a minute and retry later",
		)
	case splitwise.StatusTimeout:
		out = append(out,
			"Splitwise is slow to respond, retry in a moment",
		)
	default:
		out = append(out, "Retry the request; if it keeps failing check Splitwise status")
	}

	switch tool {
	case "payFriendSplitwise":
		out = append(out, "Use the friend's first name as it appears in the group")
	case "createSplitwiseExpense":
		out = append(out, `Example: "add expense Dinner 1200 in Goa Trip"`)
	}
	return out
}
