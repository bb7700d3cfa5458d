package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/chat"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chat         *chat.Service
	participants storage.ParticipantStorage
	teams        storage.TeamStorage
}

func NewChatController(service *chat.Service, participants storage.ParticipantStorage, teams storage.TeamStorage) *ChatController {
	return &ChatController{chat: service, participants: participants, teams: teams}
}

func (c *ChatController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/chat", auth)

	group.GET("/rooms/:room/messages", c.latest)
	group.POST("/rooms/:room/messages", c.post)
	group.PUT("/rooms/:room/read", c.markRead)
	group.GET("/unread", c.unread)
	group.GET("/ws", c.websocket)
}

// teamOf is the caller's team, zero for staff and participants without a team.
func (c *ChatController) teamOf(ctx context.Context, actor domain.Actor) (int, error) {
	if actor.Role != domain.RoleParticipant {
		return 0, nil
	}
	p, err := c.participants.Get(ctx, actor.UserID)
	if err == storage.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.TeamID, nil
}

// joinedRoom answers the request itself when the caller may not use the room.
func (c *ChatController) joinedRoom(g *gin.Context) (string, bool) {
	room := g.Param("room")
	actor := actorOf(g)
	teamID, err := c.teamOf(g.Request.Context(), actor)
	if err != nil {
		respondError(g, "CHAT", err)
		return "", false
	}
	if !chat.CanJoin(actor, teamID, room) {
		respondError(g, "CHAT", domain.Forbiddenf("room %s is not open to you", room))
		return "", false
	}
	return room, true
}

// @Security BearerToken
// latest godoc
// @Summary Latest messages of a room, oldest first
// @Tags chat
// @Produce json
// @Param room path string true "Room"
// @Param limit query int false "At most 50"
// @Success 200 {array} chat.Event
// @Failure 403 {object} models.ErrorResponse
// @Router /api/chat/rooms/{room}/messages [get]
func (c *ChatController) latest(g *gin.Context) {
	room, ok := c.joinedRoom(g)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(g.Query("limit"))
	events, err := c.chat.Latest(g.Request.Context(), room, limit)
	if err != nil {
		respondError(g, "CHAT", err)
		return
	}
	g.JSON(http.StatusOK, events)
}

// @Security BearerToken
// post godoc
// @Summary Post a message to a room
// @Description Members of a team room other than the sender get an unread notification
// @Tags chat
// @Accept json
// @Produce json
// @Param room path string true "Room"
// @Param request body models.ChatMessageRequest true "Message"
// @Success 201 {object} chat.Event
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/chat/rooms/{room}/messages [post]
func (c *ChatController) post(g *gin.Context) {
	var req models.ChatMessageRequest
	if !bindRequest(g, &req) {
		return
	}
	room, ok := c.joinedRoom(g)
	if !ok {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	event, err := c.chat.PostMessage(ctx, room, actor.UserID, req.Content)
	if err != nil {
		respondError(g, "CHAT", err)
		return
	}
	c.notifyTeam(ctx, room, actor.UserID, event.Content)
	g.JSON(http.StatusCreated, event)
}

func (c *ChatController) notifyTeam(ctx context.Context, room string, from int, content string) {
	teamID, ok := chat.TeamOfRoom(room)
	if !ok {
		return
	}
	team, err := c.teams.Get(ctx, teamID)
	if err != nil {
		logging.Log.Warnf("CHAT: no team for room %s: %v", room, err)
		return
	}
	for _, member := range team.Members {
		if member == from {
			continue
		}
		_ = c.chat.Notify(ctx, member, room, content)
	}
}

// @Security BearerToken
// markRead godoc
// @Summary Clear the caller's unread count for a room
// @Tags chat
// @Produce json
// @Param room path string true "Room"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/chat/rooms/{room}/read [put]
func (c *ChatController) markRead(g *gin.Context) {
	room, ok := c.joinedRoom(g)
	if !ok {
		return
	}
	if err := c.chat.MarkRead(g.Request.Context(), actorOf(g).UserID, room); err != nil {
		respondError(g, "CHAT", err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "marked as read"})
}

// @Security BearerToken
// unread godoc
// @Summary Unread notification counts of the caller
// @Tags chat
// @Produce json
// @Success 200 {object} models.UnreadResponse
// @Router /api/chat/unread [get]
func (c *ChatController) unread(g *gin.Context) {
	counts, err := c.chat.Unread(g.Request.Context(), actorOf(g).UserID)
	if err != nil {
		respondError(g, "CHAT", err)
		return
	}
	resp := &models.UnreadResponse{Rooms: counts}
	for _, n := range counts {
		resp.Total += n
	}
	g.JSON(http.StatusOK, resp)
}

// roomsFor lists every room the actor may join.
func roomsFor(actor domain.Actor, teamID int) []string {
	candidates := []string{chat.RoomGeneral, chat.RoomOrganisers, chat.RoomJudges}
	if teamID != 0 {
		candidates = append(candidates, chat.TeamRoom(teamID))
	}
	rooms := make([]string, 0, len(candidates))
	for _, r := range candidates {
		if chat.CanJoin(actor, teamID, r) {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// @Security BearerToken
// websocket godoc
// @Summary Stream chat events over a websocket
// @Description Browsers pass the token as the token query parameter
// @Tags chat
// @Param token query string false "Auth token"
// @Success 101
// @Router /api/chat/ws [get]
func (c *ChatController) websocket(g *gin.Context) {
	actor := actorOf(g)
	teamID, err := c.teamOf(g.Request.Context(), actor)
	if err != nil {
		respondError(g, "CHAT", err)
		return
	}
	if err := c.chat.ServeWS(g.Writer, g.Request, actor.UserID, roomsFor(actor, teamID)); err != nil && !g.Writer.Written() {
		respondError(g, "CHAT", err)
	}
}
