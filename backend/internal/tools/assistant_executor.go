package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================================
// Assistant Tool Implementations
// ============================================================================

// Entity types and relation types used when recording a raw message
const (
	userEntityType    = "user"
	messageEntityType = "message"
	sentRelationType  = "sent"
)

func (e *Executor) executeProcessUserMessage(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a processUserMessageArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	extraction := e.extractor.Extract(a.UserID, a.Message)
	if extraction.Empty() {
		return &ToolResult{
			Success: true,
			Data:    map[string]interface{}{"status": "skipped"},
			Message: "Message is not job-related; nothing was stored.",
		}
	}

	// Record the raw message on a message entity hanging off the per-user
	// anchor entity, mirroring the extracted facts with their source.
	userEntity := "user:" + a.UserID
	messageEntity := "message:" + uuid.New().String()

	if _, err := e.store.UpsertEntity(ctx, a.UserID, userEntity, userEntityType); err != nil {
		return e.errorResult(err)
	}
	if _, err := e.store.UpsertEntity(ctx, a.UserID, messageEntity, messageEntityType); err != nil {
		return e.errorResult(err)
	}
	if err := e.store.AddObservations(ctx, a.UserID, messageEntity, []string{a.Message}); err != nil {
		return e.errorResult(err)
	}
	if err := e.store.AddRelation(ctx, a.UserID, userEntity, sentRelationType, messageEntity); err != nil {
		return e.errorResult(err)
	}

	touched := make([]string, 0, len(extraction.Observations))
	for _, obs := range extraction.Observations {
		if _, err := e.store.UpsertEntity(ctx, a.UserID, obs.EntityName, obs.EntityType); err != nil {
			return e.errorResult(err)
		}
		if err := e.store.AddObservations(ctx, a.UserID, obs.EntityName, []string{obs.Text}); err != nil {
			return e.errorResult(err)
		}
		touched = append(touched, obs.EntityName)
	}
	for _, rel := range extraction.Relations {
		if err := e.store.AddRelation(ctx, a.UserID, rel.From, rel.Type, rel.To); err != nil {
			return e.errorResult(err)
		}
	}

	e.logger.Info("User message processed",
		zap.String("user_id", a.UserID),
		zap.Int("entities", len(touched)),
		zap.Int("relations", len(extraction.Relations)),
	)

	return &ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"status":         "success",
			"entities":       touched,
			"relations":      len(extraction.Relations),
			"message_entity": messageEntity,
		},
		Message: fmt.Sprintf("Stored %d facts and %d relations from the message.",
			len(touched), len(extraction.Relations)),
	}
}

func (e *Executor) executeGetJobRecommendations(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a getJobRecommendationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	rec, err := e.synthesizer.Recommend(ctx, a.UserID, a.RecommendationType)
	if err != nil {
		return e.errorResult(err)
	}

	return &ToolResult{
		Success: true,
		Data:    rec,
		Message: fmt.Sprintf("Synthesized %d %s recommendations.", len(rec.Items), rec.Type),
	}
}
