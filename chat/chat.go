// Package chat is a thin publish/subscribe layer over Redis. Every room and every
// user has its own channel; events carry no delivery, ordering or replay guarantee.
// The latest messages of a room are kept in a capped list so a client can fetch
// them when it opens the room.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type EventType string

const (
	EventMessage      EventType = "message"
	EventNotification EventType = "notification"
)

const (
	// HistorySize is how many messages a room keeps.
	HistorySize   = 50
	maxContentLen = 1000
)

// Shared rooms besides the per-team ones.
const (
	RoomGeneral    = "general"
	RoomOrganisers = "organisers"
	RoomJudges     = "judges"
)

var roomPattern = regexp.MustCompile(`^(team-[0-9]+|general|organisers|judges)$`)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Room      string    `json:"room,omitempty"`
	From      int       `json:"from"`
	To        int       `json:"to,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func TeamRoom(teamID int) string {
	return fmt.Sprintf("team-%d", teamID)
}

// TeamOfRoom returns the team id of a team room.
func TeamOfRoom(room string) (int, bool) {
	rest, ok := strings.CutPrefix(room, "team-")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func roomChannel(room string) string {
	return "chat:room:" + room
}

func userChannel(userID int) string {
	return fmt.Sprintf("chat:user:%d", userID)
}

func historyKey(room string) string {
	return "chat:history:" + room
}

func unreadKey(userID int) string {
	return fmt.Sprintf("chat:unread:%d", userID)
}

// CanJoin decides which rooms a user may read and post to. teamID is the user's
// team, zero when they have none.
func CanJoin(actor domain.Actor, teamID int, room string) bool {
	if !roomPattern.MatchString(room) {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleOrganiser:
		return true
	case domain.RoleJudge:
		return room == RoomGeneral || room == RoomJudges
	case domain.RoleVolunteer:
		return room == RoomGeneral
	default:
		return room == RoomGeneral || (teamID != 0 && room == TeamRoom(teamID))
	}
}

type Service struct {
	rdb *redis.Client
}

func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.Validationf("message is empty")
	}
	if len(content) > maxContentLen {
		return "", domain.Validationf("message is longer than %d characters", maxContentLen)
	}
	return content, nil
}

// PostMessage stores the message in the room history and publishes it to the room.
func (s *Service) PostMessage(ctx context.Context, room string, from int, content string) (*Event, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventMessage,
		Room:      room,
		From:      from,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, historyKey(room), payload)
		pipe.LTrim(ctx, historyKey(room), 0, HistorySize-1)
		pipe.Publish(ctx, roomChannel(room), payload)
		return nil
	})
	if err != nil {
		logging.Log.Errorf("CHAT: failed to post to %s: %v", room, err)
		return nil, err
	}
	return event, nil
}

// Notify bumps the user's unread counter for room and pushes a notification event.
func (s *Service) Notify(ctx context.Context, userID int, room, content string) error {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventNotification,
		Room:      room,
		To:        userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, unreadKey(userID), room, 1)
		pipe.Publish(ctx, userChannel(userID), payload)
		return nil
	})
	if err != nil {
		logging.Log.Errorf("CHAT: failed to notify %d: %v", userID, err)
	}
	return err
}

// Latest returns up to limit messages of room, oldest first.
func (s *Service) Latest(ctx context.Context, room string, limit int) ([]*Event, error) {
	if limit <= 0 || limit > HistorySize {
		limit = HistorySize
	}
	raw, err := s.rdb.LRange(ctx, historyKey(room), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	events := make([]*Event, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e Event
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			logging.Log.Warnf("CHAT: skipping unreadable history entry in %s: %v", room, err)
			continue
		}
		events = append(events, &e)
	}
	return events, nil
}

// Unread returns the unread count per room for a user.
func (s *Service) Unread(ctx context.Context, userID int) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, unreadKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for room, v := range raw {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			counts[room] = n
		}
	}
	return counts, nil
}

func (s *Service) MarkRead(ctx context.Context, userID int, room string) error {
	return s.rdb.HDel(ctx, unreadKey(userID), room).Err()
}

// Subscribe listens on the given rooms and the user's own channel. It returns once
// redis has confirmed every channel.
func (s *Service) Subscribe(ctx context.Context, userID int, rooms []string) (*redis.PubSub, error) {
	channels := make([]string, 0, len(rooms)+1)
	for _, room := range rooms {
		channels = append(channels, roomChannel(room))
	}
	channels = append(channels, userChannel(userID))

	sub := s.rdb.Subscribe(ctx, channels...)
	for confirmed := 0; confirmed < len(channels); {
		msg, err := sub.Receive(ctx)
		if err != nil {
			sub.Close()
			return nil, err
		}
		if _, ok := msg.(*redis.Subscription); ok {
			confirmed++
		}
	}
	return sub, nil
}
