package ledger

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-ledger-api/internal/model"
	"github.com/jwalitptl/clinic-ledger-api/internal/service/ledger"
	apperrors "github.com/jwalitptl/clinic-ledger-api/pkg/errors"
	"github.com/jwalitptl/clinic-ledger-api/pkg/httputil"
)

type Handler struct {
	service ledger.LedgerService
}

func NewHandler(service ledger.LedgerService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ledgers := rg.Group("/ledger")
	{
		// Literal routes before /:id so the id pattern cannot shadow them.
		ledgers.GET("/search", h.SearchLedgers)
		ledgers.GET("/details/:id", h.GetLedger)
		ledgers.PATCH("/mark-paid", h.MarkPatientLedgersPaid)

		ledgers.POST("", h.CreateLedger)
		ledgers.GET("", h.ListLedgers)
		ledgers.PATCH("/:id/status", h.UpdateLedgerStatus)
		ledgers.PATCH("/:id", h.UpdateLedger)
		ledgers.DELETE("/:id", h.DeleteLedger)
	}
}

func (h *Handler) CreateLedger(c *gin.Context) {
	var req model.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	created, err := h.service.CreateLedger(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, "Ledger created successfully", created)
}

func (h *Handler) ListLedgers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	paged, err := h.service.ListLedgers(c.Request.Context(), page, limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, "Ledgers fetched successfully", paged.Ledgers, httputil.Meta{
		Total:      paged.Total,
		Page:       paged.Page,
		Limit:      paged.Limit,
		TotalPages: paged.TotalPages,
	})
}

func (h *Handler) GetLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid ledger ID"))
		return
	}

	found, err := h.service.GetLedger(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, "Ledger fetched successfully", found)
}

func (h *Handler) SearchLedgers(c *gin.Context) {
	ledgers, err := h.service.SearchLedgers(c.Request.Context(), c.Query("search"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, "", ledgers)
}

func (h *Handler) UpdateLedgerStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid ledger ID"))
		return
	}

	var req model.UpdateLedgerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	updated, err := h.service.UpdateLedgerStatus(c.Request.Context(), id, req.LedgerStatus)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, "Ledger status updated", updated)
}

func (h *Handler) UpdateLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid ledger ID"))
		return
	}

	var req model.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	updated, err := h.service.UpdateLedger(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, "Ledger updated successfully", updated)
}

func (h *Handler) DeleteLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid ledger ID"))
		return
	}

	if err := h.service.DeleteLedger(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, "Ledger deleted successfully", nil)
}

func (h *Handler) MarkPatientLedgersPaid(c *gin.Context) {
	var req model.MarkLedgersPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	result, err := h.service.MarkAllPaidForPatient(c.Request.Context(), req.PatientName, req.PatientContactNumber)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	message := fmt.Sprintf("%d ledger(s) marked as paid", result.ModifiedCount)
	httputil.RespondWithSuccess(c, http.StatusOK, message, result)
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not numeric.
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
