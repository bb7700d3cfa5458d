package controllers

import (
	"net/http"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const qrCodeLength = 10

type ParticipantController struct {
	participants storage.ParticipantStorage
	settings     storage.SettingsStorage
}

func NewParticipantController(participants storage.ParticipantStorage, settings storage.SettingsStorage) *ParticipantController {
	return &ParticipantController{participants: participants, settings: settings}
}

func (c *ParticipantController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/participants", auth, transport.RequireRoles(domain.RoleParticipant))

	group.POST("", c.register)
	group.GET("/me", c.me)
	group.PUT("/me", c.update)
}

func generateQRCode() (string, error) {
	return gonanoid.Generate(models.Alphabet, qrCodeLength)
}

// @Security BearerToken
// register godoc
// @Summary Register the caller as a participant
// @Tags participants
// @Accept json
// @Produce json
// @Param request body models.ParticipantRegisterRequest true "Registration"
// @Success 201 {object} models.ParticipantResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Registration closed"
// @Failure 409 {object} models.ErrorResponse "Already registered"
// @Router /api/participants [post]
func (c *ParticipantController) register(g *gin.Context) {
	var req models.ParticipantRegisterRequest
	if !bindRequest(g, &req) {
		return
	}
	settings, err := c.settings.Get(g.Request.Context())
	if err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}
	if !settings.IsRegistrationOpen {
		respondError(g, "PARTICIPANT", domain.Forbiddenf("registration is closed"))
		return
	}

	code, err := generateQRCode()
	if err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}
	actor := actorOf(g)
	p := &storage.Participant{
		ID:             actor.UserID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		College:        req.College,
		GithubUsername: req.GithubUsername,
		QRCode:         code,
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.participants.Create(g.Request.Context(), p); err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}

	logging.Log.Infof("PARTICIPANT: registered %d (%s)", p.ID, p.Email)
	g.JSON(http.StatusCreated, models.TransformParticipantFromStorage(p))
}

// @Security BearerToken
// me godoc
// @Summary Get the caller's participant profile
// @Tags participants
// @Produce json
// @Success 200 {object} models.ParticipantResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/participants/me [get]
func (c *ParticipantController) me(g *gin.Context) {
	p, err := c.participants.Get(g.Request.Context(), actorOf(g).UserID)
	if err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformParticipantFromStorage(p))
}

// @Security BearerToken
// update godoc
// @Summary Edit the caller's profile while profile editing is open
// @Tags participants
// @Accept json
// @Produce json
// @Param request body models.ParticipantUpdateRequest true "Profile"
// @Success 200 {object} models.ParticipantResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/participants/me [put]
func (c *ParticipantController) update(g *gin.Context) {
	var req models.ParticipantUpdateRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	settings, err := c.settings.Get(ctx)
	if err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}
	if !settings.IsProfileEditOpen {
		respondError(g, "PARTICIPANT", domain.Forbiddenf("profile editing is closed"))
		return
	}

	p, err := c.participants.Get(ctx, actorOf(g).UserID)
	if err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}
	p.Name = req.Name
	p.Phone = req.Phone
	p.College = req.College
	p.GithubUsername = req.GithubUsername
	if err := c.participants.Update(ctx, p); err != nil {
		respondError(g, "PARTICIPANT", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformParticipantFromStorage(p))
}
