package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/metrics"
	"explore-sync.backend/internal/interfaces/http/response"
	"explore-sync.backend/internal/usecases"
	"explore-sync.backend/pkg/logger"
)

type syncService interface {
	Run(ctx context.Context) (*entities.SyncReport, error)
}

type cancelRequester interface {
	RequestCancel(ctx context.Context) error
}

type SyncHandler struct {
	service   syncService
	canceller cancelRequester
	runRepo   repositories.SyncRunRepository
	matchRepo repositories.MatchAuditRepository
}

func NewSyncHandler(
	service *usecases.SyncUsecase,
	canceller cancelRequester,
	runRepo repositories.SyncRunRepository,
	matchRepo repositories.MatchAuditRepository,
) *SyncHandler {
	return &SyncHandler{
		service:   service,
		canceller: canceller,
		runRepo:   runRepo,
		matchRepo: matchRepo,
	}
}

// Trigger starts a sync run in the background. The run outlives the HTTP
// request, so it gets a detached context.
// POST /api/v1/sync
func (h *SyncHandler) Trigger(c *gin.Context) {
	go func() {
		ctx := context.Background()
		report, err := h.service.Run(ctx)
		switch {
		case err == nil:
			metrics.ObserveRun(entities.SyncRunStatusSucceeded, report)
		case errors.Is(err, domainerrors.ErrSyncInProgress):
			metrics.ObserveRun(entities.SyncRunStatusSkipped, report)
		case errors.Is(err, domainerrors.ErrSyncCanceled):
			metrics.ObserveRun(entities.SyncRunStatusCanceled, report)
		default:
			logger.WithContext(ctx).Error("triggered sync run failed", zap.Error(err))
			metrics.ObserveRun(entities.SyncRunStatusFailed, report)
		}
	}()

	response.Success(c, http.StatusAccepted, gin.H{"message": "sync started"})
}

// Cancel raises the cooperative cancel flag; a running sync stops at the
// next batch boundary.
// POST /api/v1/sync/cancel
func (h *SyncHandler) Cancel(c *gin.Context) {
	if err := h.canceller.RequestCancel(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"message": "cancel requested"})
}

// Status returns the most recent run record with its report.
// GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	run, err := h.runRepo.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("no sync run recorded yet"))
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"run": run})
}

// Matches lists the accepted matches from the last run, highest confidence
// first.
// GET /api/v1/sync/matches?limit=100
func (h *SyncHandler) Matches(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, domainerrors.BadRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	matches, err := h.matchRepo.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}
