package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

type MonitoringHandler struct {
	monitoring service.MonitoringService
	analytics  service.AnalyticsService
}

func NewMonitoringHandler(m service.MonitoringService, a service.AnalyticsService) *MonitoringHandler {
	return &MonitoringHandler{monitoring: m, analytics: a}
}

type SeriesQuery struct {
	Metric    string `form:"metric" binding:"omitempty,oneof=requests errors response_time uptime" example:"requests"`
	TimeRange string `form:"timeRange" binding:"omitempty,oneof=24h 7d 30d" example:"24h"`
}

// GetMetrics godoc
//
//	@Summary		Project metrics
//	@Description	Time series of one metric with a summary. Hourly buckets for 24h, daily otherwise.
//	@Tags			monitoring
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Param			metric		query	string	false	"requests, errors, response_time or uptime"
//	@Param			timeRange	query	string	false	"24h, 7d or 30d"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.SeriesOutput}
//	@Router			/monitoring/projects/{project_id} [get]
func (h *MonitoringHandler) GetMetrics(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	q := SeriesQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.monitoring.Series(c.Request.Context(), service.SeriesInput{
		UserID:    user.UserID,
		ProjectID: id,
		Metric:    q.Metric,
		TimeRange: q.TimeRange,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

type MetricPointReq struct {
	Metric     string     `json:"metric" binding:"required,oneof=requests errors response_time uptime" example:"response_time"`
	Value      float64    `json:"value" example:"182.5"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type IngestMetricsReq struct {
	Points []MetricPointReq `json:"points" binding:"required,min=1,max=1000,dive"`
}

type IngestMetricsResp struct {
	Accepted int `json:"accepted"`
}

// IngestMetrics godoc
//
//	@Summary		Ingest metrics
//	@Description	Record metric points for a deployed project. Owner only.
//	@Tags			monitoring
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.IngestMetricsReq	true	"IngestMetrics payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=handler.IngestMetricsResp}
//	@Router			/monitoring/projects/{project_id} [post]
func (h *MonitoringHandler) IngestMetrics(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	req := IngestMetricsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	points := make([]service.IngestPoint, len(req.Points))
	for i, p := range req.Points {
		points[i] = service.IngestPoint{Metric: p.Metric, Value: p.Value}
		if p.RecordedAt != nil {
			points[i].RecordedAt = *p.RecordedAt
		}
	}
	n, err := h.monitoring.Ingest(c.Request.Context(), service.IngestInput{UserID: user.UserID, ProjectID: id, Points: points})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(IngestMetricsResp{Accepted: n}))
}

type OverviewQuery struct {
	TimeRange string `form:"timeRange" binding:"omitempty,oneof=7d 30d 90d" example:"30d"`
}

// GetOverview godoc
//
//	@Summary		Analytics overview
//	@Description	Project totals, generation and deployment counts, success rate and daily activity
//	@Tags			analytics
//	@Produce		json
//	@Param			timeRange	query	string	false	"7d, 30d or 90d (default 30d)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.Overview}
//	@Router			/analytics/overview [get]
func (h *MonitoringHandler) GetOverview(c *gin.Context) {
	q := OverviewQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.analytics.Overview(c.Request.Context(), user.UserID, q.TimeRange)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}
