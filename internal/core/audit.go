package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/db"
	"github.com/google/uuid"
)

// AuditSink persists audit events. *db.DB implements it.
type AuditSink interface {
	InsertAuditEvent(ctx context.Context, e *db.AuditEvent) error
}

// AuditService records every tool invocation with a SHA-256 evidence hash
// of the request and response. Events are always logged and additionally
// written to the sink when one is configured.
type AuditService struct {
	gateway string
	sink    AuditSink
	logger  *slog.Logger
}

// NewAuditService wires the audit layer. sink may be nil.
func NewAuditService(gateway string, sink AuditSink, logger *slog.Logger) *AuditService {
	return &AuditService{gateway: gateway, sink: sink, logger: logger}
}

// RecordInput captures what is needed to log a tool call.
type RecordInput struct {
	ExecutionID   string
	ToolName      string
	RequestedName string
	Caller        string
	Request       any
	Result        ToolResult
	Duration      time.Duration
}

// Record builds the audit event and hands it to the sink. A sink failure is
// returned to the caller, who decides whether it matters.
func (a *AuditService) Record(ctx context.Context, in RecordInput) (*db.AuditEvent, error) {
	reqJSON, err := json.Marshal(in.Request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	respJSON, err := json.Marshal(in.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	evidence := sha256.Sum256(append(reqJSON, respJSON...))

	ev := &db.AuditEvent{
		EventID:       uuid.New().String(),
		Gateway:       a.gateway,
		ExecutionID:   in.ExecutionID,
		ToolName:      in.ToolName,
		RequestedName: in.RequestedName,
		Caller:        in.Caller,
		Status:        in.Result.Status(),
		Source:        in.Result.Source(),
		DurationMS:    in.Duration.Milliseconds(),
		EvidenceHash:  hex.EncodeToString(evidence[:]),
		CreatedAt:     time.Now().UTC(),
	}
	if in.Result.Error != nil {
		ev.ErrorCode = in.Result.Error.Code
	}

	if a.logger != nil {
		a.logger.Info("tool call audited",
			"gateway", ev.Gateway,
			"execution_id", ev.ExecutionID,
			"tool", ev.ToolName,
			"requested", ev.RequestedName,
			"status", ev.Status,
			"source", ev.Source,
			"error_code", ev.ErrorCode,
			"evidence_hash", ev.EvidenceHash,
		)
	}

	if a.sink == nil {
		return ev, nil
	}
	if err := a.sink.InsertAuditEvent(ctx, ev); err != nil {
		return ev, fmt.Errorf("insert audit event: %w", err)
	}
	return ev, nil
}
