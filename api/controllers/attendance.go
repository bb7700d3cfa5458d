package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/metrics"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	participants storage.ParticipantStorage
	audit        audit.Log
}

func NewAttendanceController(participants storage.ParticipantStorage, log audit.Log) *AttendanceController {
	return &AttendanceController{participants: participants, audit: log}
}

func (c *AttendanceController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/attendance", auth)
	admin := transport.RequireRoles(domain.RoleAdmin)

	group.POST("/scan", transport.RequireRoles(domain.RoleVolunteer, domain.RoleOrganiser), c.scan)
	group.GET("", transport.RequireRoles(domain.RoleOrganiser), c.list)
	group.POST("/participants/:id/code", admin, c.regenerateCode)
	group.POST("/reset", admin, c.reset)
}

// @Security BearerToken
// scan godoc
// @Summary Mark a participant present by QR code
// @Description Scanning someone already marked returns alreadyIn=true and changes nothing
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body models.AttendanceScanRequest true "Scanned code"
// @Success 200 {object} models.AttendanceScanResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Unknown code"
// @Router /api/attendance/scan [post]
func (c *AttendanceController) scan(g *gin.Context) {
	var req models.AttendanceScanRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	p, err := c.participants.GetByQRCode(ctx, code)
	if err != nil {
		if err == storage.ErrNotFound {
			metrics.AttendanceScans.WithLabelValues("unknown").Inc()
			respondError(g, "ATTENDANCE", domain.NotFoundf("no participant with code %s", code))
			return
		}
		respondError(g, "ATTENDANCE", err)
		return
	}
	if p.Attended {
		metrics.AttendanceScans.WithLabelValues("repeat").Inc()
		g.JSON(http.StatusOK, &models.AttendanceScanResponse{Participant: models.TransformParticipantFromStorage(p), AlreadyIn: true})
		return
	}

	now := time.Now().UTC()
	if err := c.participants.MarkAttended(ctx, p.ID, now); err != nil {
		if err == storage.ErrConditionFailed {
			// a second scanner got there first
			metrics.AttendanceScans.WithLabelValues("repeat").Inc()
			g.JSON(http.StatusOK, &models.AttendanceScanResponse{Participant: models.TransformParticipantFromStorage(p), AlreadyIn: true})
			return
		}
		respondError(g, "ATTENDANCE", err)
		return
	}
	p.Attended = true
	p.AttendedAt = &now
	metrics.AttendanceScans.WithLabelValues("marked").Inc()

	actor := actorOf(g)
	audit.Record(ctx, c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionAttendanceMarked,
		EntityType: "participant",
		EntityID:   strconv.Itoa(p.ID),
		NewValue:   "present",
	})
	g.JSON(http.StatusOK, &models.AttendanceScanResponse{Participant: models.TransformParticipantFromStorage(p)})
}

// @Security BearerToken
// list godoc
// @Summary List participants with their attendance
// @Tags attendance
// @Produce json
// @Param attended query bool false "Only present (true) or absent (false) participants"
// @Success 200 {array} models.ParticipantResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/attendance [get]
func (c *AttendanceController) list(g *gin.Context) {
	var only *bool
	if raw := g.Query("attended"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(g, "ATTENDANCE", domain.Validationf("attended must be true or false"))
			return
		}
		only = &v
	}

	participants, err := c.participants.GetAll(g.Request.Context())
	if err != nil {
		respondError(g, "ATTENDANCE", err)
		return
	}
	out := make([]models.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		if only != nil && p.Attended != *only {
			continue
		}
		out = append(out, models.TransformParticipantFromStorage(p))
	}
	g.JSON(http.StatusOK, out)
}

// @Security BearerToken
// regenerateCode godoc
// @Summary Issue a new attendance code for a participant
// @Tags attendance
// @Produce json
// @Param id path int true "Participant ID"
// @Success 200 {object} models.ParticipantResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/attendance/participants/{id}/code [post]
func (c *AttendanceController) regenerateCode(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	code, err := generateQRCode()
	if err != nil {
		respondError(g, "ATTENDANCE", err)
		return
	}
	ctx := g.Request.Context()
	if err := c.participants.SetQRCode(ctx, id, code); err != nil {
		respondError(g, "ATTENDANCE", err)
		return
	}
	p, err := c.participants.Get(ctx, id)
	if err != nil {
		respondError(g, "ATTENDANCE", err)
		return
	}
	logging.Log.Infof("ATTENDANCE: new code issued for participant %d", id)
	g.JSON(http.StatusOK, models.TransformParticipantFromStorage(p))
}

// @Security BearerToken
// reset godoc
// @Summary Clear attendance for every participant
// @Tags attendance
// @Produce json
// @Success 200 {object} models.AttendanceResetResponse
// @Router /api/attendance/reset [post]
func (c *AttendanceController) reset(g *gin.Context) {
	ctx := g.Request.Context()
	n, err := c.participants.ResetAttendance(ctx)
	if err != nil {
		respondError(g, "ATTENDANCE", err)
		return
	}

	actor := actorOf(g)
	audit.Record(ctx, c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionAttendanceReset,
		EntityType: "attendance",
		EntityID:   "all",
		Details:    map[string]string{"reset": strconv.Itoa(n)},
	})
	logging.Log.Warnf("ATTENDANCE: reset %d participants", n)
	g.JSON(http.StatusOK, &models.AttendanceResetResponse{Reset: n})
}
