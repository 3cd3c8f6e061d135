package handler

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/api/http/middleware"
	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

// Recorder writes the audit trail for webhook calls: one RequestLog
// row per call, created before dispatch, finalized with the outcome.
// Logging failures never fail the call itself.
type Recorder struct {
	logs   *store.RequestLogStore
	logger *slog.Logger
}

func NewRecorder(stores *store.Stores, logger *slog.Logger) *Recorder {
	return &Recorder{logs: stores.RequestLogs, logger: logger}
}

func (r *Recorder) Start(c fiber.Ctx, entityType, action string) *model.RequestLog {
	log := &model.RequestLog{
		Endpoint:    c.Path(),
		EntityType:  entityType,
		Action:      action,
		RequestBody: string(c.Body()),
		State:       model.RequestStatePending,
	}
	if meta, found := middleware.RequestMetaFromFiber(c); found {
		log.RequestID = meta.RequestID
		log.RemoteAddr = meta.ClientIP
		log.UserAgent = meta.UserAgent
	} else {
		log.RequestID = middleware.NewRequestID()
	}

	if err := r.logs.Create(c.Context(), log); err != nil {
		r.logger.Error("creating request log failed", "error", err)
	}
	return log
}

func (r *Recorder) Done(c fiber.Ctx, log *model.RequestLog, entityID string, recordID uint, data any) {
	log.State = model.RequestStateSuccess
	log.EntityID = entityID
	log.RecordID = recordID
	if raw, err := json.Marshal(data); err == nil {
		log.ResponseBody = string(raw)
	}
	r.finalize(c, log)
}

func (r *Recorder) Fail(c fiber.Ctx, log *model.RequestLog, cause error) {
	log.State = model.RequestStateFailed
	log.ErrorMessage = cause.Error()
	r.finalize(c, log)
}

func (r *Recorder) finalize(c fiber.Ctx, log *model.RequestLog) {
	if log.ID == 0 {
		return
	}
	if meta, found := middleware.RequestMetaFromFiber(c); found {
		log.ProcessingMs = time.Since(meta.RequestedAt).Milliseconds()
	}
	if err := r.logs.Finalize(c.Context(), log); err != nil {
		r.logger.Error("finalizing request log failed", "request_id", log.RequestID, "error", err)
	}
}
