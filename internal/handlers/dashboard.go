package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/dto"
	apierrors "github.com/yukikurage/task-analytics-api/internal/errors"
	"github.com/yukikurage/task-analytics-api/internal/services"
	"github.com/yukikurage/task-analytics-api/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	reportService    *services.ReportService
	bulkService      *services.BulkService
}

func NewDashboardHandler(dashboardService *services.DashboardService, reportService *services.ReportService, bulkService *services.BulkService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reportService:    reportService,
		bulkService:      bulkService,
	}
}

// GetDashboard returns the composite analytics payload
// Query: days (1-365, default 30)
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	days, err := utils.GetLookbackDays(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDashboardDTO(dashboard)))
}

// GetReport generates a report of the type named in the path
// Query: startDate, endDate (RFC3339 or YYYY-MM-DD), format (json|csv)
func (h *DashboardHandler) GetReport(c *gin.Context) {
	startDate, err := utils.ParseDateParam(c, "startDate", false)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	endDate, err := utils.ParseDateParam(c, "endDate", true)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), services.ReportRequest{
		Type:      c.Param("type"),
		Format:    c.DefaultQuery("format", constants.FormatJSON),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if report.Format == constants.FormatCSV {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-report.csv"`, report.Type))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", report.Body)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMeta(report.Records, dto.ToReportMetaDTO(report)))
}

// BulkUpdate applies one operation to many tasks
func (h *DashboardHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.bulkService.Apply(c.Request.Context(), req.ToInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToBulkUpdateResponseDTO(result)))
}

func respondServiceError(c *gin.Context, err error) {
	var invalid *services.InvalidInputError

	switch {
	case errors.As(err, &invalid):
		if len(invalid.Valid) > 0 {
			apierrors.BadRequestWithDetails(c, invalid.Message, gin.H{"validValues": invalid.Valid})
			return
		}
		apierrors.BadRequest(c, invalid.Message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		apierrors.ServiceUnavailable(c, "Request cancelled or timed out")
	case errors.Is(err, services.ErrStore):
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("store failure")
		apierrors.InternalError(c, err.Error())
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("unexpected error")
		apierrors.InternalError(c, "Internal server error")
	}
}
