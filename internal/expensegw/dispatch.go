package expensegw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/params"
	"github.com/Adi-21/bhidi0xgasless/internal/splitwise"
)

// Execute runs a canonical expense tool: normalize, answer from the demo
// group without a token, else call Splitwise.
func (g *Gateway) Execute(ctx context.Context, h http.Header, tool string, args map[string]any) core.ToolResult {
	cfg := ConfigFromHeaders(h)
	executionID := core.ExecutionID(ctx)
	logger := g.logger.With("execution_id", executionID, "tool", tool)

	if _, ok := g.reg.Lookup(tool); !ok {
		return core.Fail(core.ToolNotFound(tool), nil)
	}

	processed, err := params.NormalizeExpense(tool, args, cfg.options())
	if err != nil {
		logger.Info("expense parameters rejected", "error", err)
		return core.Fail(err, map[string]any{"toolName": tool})
	}

	if cfg.SplitwiseToken == "" {
		logger.Info("splitwise token missing", cfg.LogAttrs()...)
		if !g.demoFallback {
			return core.Fail(&core.Error{
				Code:    core.CodeServiceUnavailable,
				Message: "Splitwise is unavailable. Provide a token in x-splitwise-key or an Authorization bearer header.",
			}, map[string]any{"toolName": tool, "executionId": executionID})
		}
		return mock(tool, processed, cfg)
	}

	client := splitwise.NewClient(g.baseURL, cfg.SplitwiseToken, g.timeout)
	data, err := g.run(ctx, client, tool, processed, cfg)
	if err != nil {
		logger.Warn("splitwise call failed", "error", err)
		return failure(tool, args, processed, executionID, err)
	}
	data["toolName"] = tool
	data["source"] = core.SourceSplitwise
	data["executionId"] = executionID
	return core.Succeed(data)
}

func (g *Gateway) run(ctx context.Context, c *splitwise.Client, tool string, processed map[string]any, cfg Config) (map[string]any, error) {
	groupID := str(processed["groupId"])
	if groupID != "" {
		groupID = c.ResolveGroup(ctx, groupID, params.AutoGroup, params.DemoGroupID)
	}

	switch tool {
	case "getSplitwiseBalance":
		group, err := c.Group(ctx, groupID)
		if err != nil {
			return nil, err
		}
		var userID int64
		if user, err := c.CurrentUser(ctx); err == nil {
			userID = user.ID
		} else {
			g.logger.Debug("current user lookup failed, using first member", "error", err)
		}
		me := currentMember(group, userID)
		return map[string]any{
			"text":        balanceText(group, me),
			"group":       group,
			"currentUser": me,
		}, nil

	case "getSplitwiseExpenses":
		limit, _ := processed["limit"].(int)
		if limit == 0 {
			limit = params.DefaultExpenseLimit
		}
		expenses, err := c.Expenses(ctx, groupID, limit)
		if err != nil {
			return nil, err
		}
		if expenses == nil {
			expenses = []splitwise.Expense{}
		}
		return map[string]any{
			"text":     expensesText(expenses),
			"expenses": expenses,
			"groupId":  groupID,
		}, nil

	case "getSplitwiseGroups":
		groups, err := c.Groups(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"text": groupsText(groups), "groups": groups}, nil

	case "payFriendSplitwise":
		group, err := c.Group(ctx, groupID)
		if err != nil {
			return nil, err
		}
		friendName, amount := str(processed["friendName"]), str(processed["amount"])
		friend, ok := group.MemberByFirstName(friendName)
		if !ok {
			return nil, friendNotFound(friendName, group)
		}
		return map[string]any{
			"text":           payText(friendName, cfg.DefaultCurrency, amount, group),
			"pendingPayment": pendingPayment(friendName, friend, amount, groupID, group),
		}, nil

	case "createSplitwiseExpense":
		id, err := strconv.ParseInt(groupID, 10, 64)
		if err != nil {
			return nil, core.InvalidParameter("groupId", "must be a numeric Splitwise group id")
		}
		desc, amount, currency := str(processed["description"]), str(processed["amount"]), str(processed["currency"])
		expense, err := c.CreateExpense(ctx, splitwise.CreateExpenseInput{
			GroupID:      id,
			Description:  desc,
			Cost:         amount,
			CurrencyCode: currency,
			SplitEqually: true,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"text":    fmt.Sprintf("Expense %q for %s created successfully in Splitwise", desc, moneyText(currency, amount)),
			"expense": expense,
		}, nil
	}
	return nil, core.ToolNotFound(tool)
}

// failure keeps coded errors as they are and wraps Splitwise and transport
// errors in EXECUTION_ERROR.
func failure(tool string, args, processed map[string]any, executionID string, err error) core.ToolResult {
	extra := map[string]any{"toolName": tool, "executionId": executionID}
	if _, ok := core.AsError(err); ok {
		return core.Fail(err, extra)
	}

	ce := core.ExecutionError(err)
	ce.Context = map[string]any{
		"toolName":      tool,
		"originalArgs":  args,
		"processedArgs": processed,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"executionId":   executionID,
	}
	statusCode := 0
	var apiErr *splitwise.APIError
	if errors.As(err, &apiErr) {
		statusCode = apiErr.StatusCode
		ce.Message = apiErr.Message()
		ce.Context["statusCode"] = statusCode
	}
	ce.Context["suggestions"] = suggestions(statusCode, tool)
	return core.Fail(ce, nil)
}
