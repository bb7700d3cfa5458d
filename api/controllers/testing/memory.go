package testing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
)

// In-memory storage with the same conditional semantics as the Dynamo implementations.

type MemoryParticipants struct {
	mu    sync.Mutex
	items map[int]*storage.Participant
}

func NewMemoryParticipants() *MemoryParticipants {
	return &MemoryParticipants{items: map[int]*storage.Participant{}}
}

func (m *MemoryParticipants) Get(_ context.Context, id int) (*storage.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryParticipants) GetAll(_ context.Context) ([]*storage.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Participant, 0, len(m.items))
	for _, p := range m.items {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryParticipants) GetByQRCode(_ context.Context, code string) (*storage.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.QRCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MemoryParticipants) Create(_ context.Context, p *storage.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; ok {
		return storage.ErrItemWithIDAlreadyExists
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *MemoryParticipants) Update(_ context.Context, p *storage.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *MemoryParticipants) SetQRCode(_ context.Context, id int, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.QRCode = code
	return nil
}

func (m *MemoryParticipants) MarkAttended(_ context.Context, id int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.Attended {
		return storage.ErrConditionFailed
	}
	p.Attended = true
	p.AttendedAt = &at
	return nil
}

func (m *MemoryParticipants) ResetAttendance(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.items {
		if p.Attended {
			p.Attended = false
			p.AttendedAt = nil
			n++
		}
	}
	return n, nil
}

func (m *MemoryParticipants) setTeam(id, from, to int) error {
	p, ok := m.items[id]
	if !ok || p.TeamID != from {
		return storage.ErrAlreadyInTeam
	}
	p.TeamID = to
	return nil
}

type MemoryTeams struct {
	mu           sync.Mutex
	participants *MemoryParticipants
	items        map[int]*storage.Team
	slots        map[string]int
	counter      int
}

func NewMemoryTeams(participants *MemoryParticipants) *MemoryTeams {
	return &MemoryTeams{participants: participants, items: map[int]*storage.Team{}, slots: map[string]int{}}
}

func copyTeam(t *storage.Team) *storage.Team {
	cp := *t
	cp.Members = append([]int(nil), t.Members...)
	cp.Repos = append([]string(nil), t.Repos...)
	if t.Idea != nil {
		idea := *t.Idea
		cp.Idea = &idea
	}
	return &cp
}

// Seed stores a team as is, claiming its award and arena slots. Members are bound too.
func (m *MemoryTeams) Seed(t *storage.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[t.ID] = copyTeam(t)
	if t.ID > m.counter {
		m.counter = t.ID
	}
	if p := domain.TeamProgress(t.Progress); p.IsAward() {
		m.slots[domain.AwardSlotKey(p, t.Track())] = t.ID
	}
	if t.Arena != "" {
		m.slots[storage.ArenaSlotKey(t.Arena)] = t.ID
	}
	m.participants.mu.Lock()
	for _, id := range t.Members {
		if p, ok := m.participants.items[id]; ok {
			p.TeamID = t.ID
		}
	}
	m.participants.mu.Unlock()
}

func (m *MemoryTeams) Get(_ context.Context, id int) (*storage.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyTeam(t), nil
}

func (m *MemoryTeams) GetAll(_ context.Context) ([]*storage.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Team, 0, len(m.items))
	for _, t := range m.items {
		out = append(out, copyTeam(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryTeams) Create(_ context.Context, t *storage.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants.mu.Lock()
	defer m.participants.mu.Unlock()

	m.counter++
	t.ID, t.Number = m.counter, m.counter
	t.Members = []int{t.LeaderID}
	if err := m.participants.setTeam(t.LeaderID, 0, t.ID); err != nil {
		return err
	}
	m.items[t.ID] = copyTeam(t)
	return nil
}

func (m *MemoryTeams) Update(_ context.Context, t *storage.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[t.ID]
	if !ok {
		return storage.ErrNotFound
	}
	next := copyTeam(t)
	next.Progress, next.Members, next.Arena = cur.Progress, cur.Members, cur.Arena
	m.items[t.ID] = next
	return nil
}

func (m *MemoryTeams) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	m.participants.mu.Lock()
	for _, member := range t.Members {
		_ = m.participants.setTeam(member, id, 0)
	}
	m.participants.mu.Unlock()
	for key, holder := range m.slots {
		if holder == id {
			delete(m.slots, key)
		}
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryTeams) AddMember(_ context.Context, teamID, participantID, maxMembers int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[teamID]
	if !ok || len(t.Members) >= maxMembers {
		return storage.ErrTeamFull
	}
	m.participants.mu.Lock()
	defer m.participants.mu.Unlock()
	if err := m.participants.setTeam(participantID, 0, teamID); err != nil {
		return err
	}
	t.Members = append(t.Members, participantID)
	return nil
}

func (m *MemoryTeams) RemoveMember(_ context.Context, teamID, participantID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[teamID]
	if !ok {
		return storage.ErrNotFound
	}
	for i, id := range t.Members {
		if id == participantID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			m.participants.mu.Lock()
			_ = m.participants.setTeam(participantID, teamID, 0)
			m.participants.mu.Unlock()
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemoryTeams) SetProgress(_ context.Context, change storage.ProgressChange) error {
	if change.From == change.To {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[change.TeamID]
	if !ok || t.Progress != change.From {
		return storage.ErrConditionFailed
	}
	to, from := domain.TeamProgress(change.To), domain.TeamProgress(change.From)
	if to.IsAward() {
		key := domain.AwardSlotKey(to, change.Track)
		if _, taken := m.slots[key]; taken {
			return storage.ErrSlotTaken
		}
		m.slots[key] = t.ID
	}
	if from.IsAward() {
		delete(m.slots, domain.AwardSlotKey(from, change.Track))
	}
	t.Progress = change.To
	return nil
}

func (m *MemoryTeams) AllocateArena(_ context.Context, teamID int, arena string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[teamID]
	if !ok {
		return storage.ErrNotFound
	}
	if t.Arena == arena {
		return nil
	}
	key := storage.ArenaSlotKey(arena)
	if _, taken := m.slots[key]; taken {
		return storage.ErrSlotTaken
	}
	if t.Arena != "" {
		delete(m.slots, storage.ArenaSlotKey(t.Arena))
	}
	m.slots[key] = teamID
	t.Arena = arena
	return nil
}

type MemoryCriteria struct {
	mu    sync.Mutex
	items map[int]*storage.Criteria
}

func NewMemoryCriteria() *MemoryCriteria {
	return &MemoryCriteria{items: map[int]*storage.Criteria{}}
}

func (m *MemoryCriteria) Get(_ context.Context, id int) (*storage.Criteria, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryCriteria) GetAll(_ context.Context) ([]*storage.Criteria, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Criteria, 0, len(m.items))
	for _, c := range m.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryCriteria) GetByJudgeType(ctx context.Context, judgeType string) ([]*storage.Criteria, error) {
	all, _ := m.GetAll(ctx)
	out := make([]*storage.Criteria, 0)
	for _, c := range all {
		if c.JudgeType == judgeType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemoryCriteria) Create(_ context.Context, c *storage.Criteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[c.ID]; ok {
		return storage.ErrItemWithIDAlreadyExists
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *MemoryCriteria) Update(_ context.Context, c *storage.Criteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[c.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *MemoryCriteria) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type MemoryJudges struct {
	mu    sync.Mutex
	items map[int]*storage.Judge
}

func NewMemoryJudges() *MemoryJudges {
	return &MemoryJudges{items: map[int]*storage.Judge{}}
}

func (m *MemoryJudges) Get(_ context.Context, id int) (*storage.Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *MemoryJudges) GetAll(_ context.Context) ([]*storage.Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Judge, 0, len(m.items))
	for _, j := range m.items {
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryJudges) Put(_ context.Context, j *storage.Judge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	m.items[j.ID] = &cp
	return nil
}

func (m *MemoryJudges) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryJudges) MarkTutorialShown(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	j.TutorialShown = true
	return nil
}

type MemoryScores struct {
	mu    sync.Mutex
	items map[string]*storage.Score
}

func NewMemoryScores() *MemoryScores {
	return &MemoryScores{items: map[string]*storage.Score{}}
}

func (m *MemoryScores) Upsert(_ context.Context, s *storage.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.PK, s.SortKey = storage.ScoreKey(s.TeamID, s.CriteriaID, s.JudgeID)
	key := s.PK + "|" + s.SortKey
	now := time.Now().UTC()
	s.UpdatedAt = now
	if cur, ok := m.items[key]; ok {
		s.CreatedAt = cur.CreatedAt
	} else {
		s.CreatedAt = now
	}
	cp := *s
	m.items[key] = &cp
	return nil
}

func (m *MemoryScores) GetByTeam(ctx context.Context, teamID int) ([]*storage.Score, error) {
	all, _ := m.GetAll(ctx)
	out := make([]*storage.Score, 0)
	for _, s := range all {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryScores) GetAll(_ context.Context) ([]*storage.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Score, 0, len(m.items))
	for _, s := range m.items {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PK != out[j].PK {
			return out[i].PK < out[j].PK
		}
		return out[i].SortKey < out[j].SortKey
	})
	return out, nil
}

func (m *MemoryScores) CountByCriteria(_ context.Context, criteriaID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.items {
		if s.CriteriaID == criteriaID {
			n++
		}
	}
	return n, nil
}

type MemoryRemarks struct {
	mu    sync.Mutex
	items map[[2]int]*storage.Remark
}

func NewMemoryRemarks() *MemoryRemarks {
	return &MemoryRemarks{items: map[[2]int]*storage.Remark{}}
}

func (m *MemoryRemarks) Put(_ context.Context, r *storage.Remark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.UpdatedAt = time.Now().UTC()
	cp := *r
	cp.Points = append([]string(nil), r.Points...)
	m.items[[2]int{r.TeamID, r.JudgeID}] = &cp
	return nil
}

func (m *MemoryRemarks) GetByTeam(_ context.Context, teamID int) ([]*storage.Remark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Remark, 0)
	for k, r := range m.items {
		if k[0] == teamID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JudgeID < out[j].JudgeID })
	return out, nil
}

type MemorySettings struct {
	mu       sync.Mutex
	settings storage.AppSettings
}

func NewMemorySettings(s storage.AppSettings) *MemorySettings {
	return &MemorySettings{settings: s}
}

func (m *MemorySettings) Get(_ context.Context) (*storage.AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := m.settings
	return &cp, nil
}

func (m *MemorySettings) Put(_ context.Context, s *storage.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = *s
	return nil
}

// MemoryAudit keeps appended entries for assertions.
type MemoryAudit struct {
	mu      sync.Mutex
	Entries []*audit.Entry
}

func (m *MemoryAudit) Append(_ context.Context, e *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.Entries = append(m.Entries, &cp)
	return nil
}

func (m *MemoryAudit) List(_ context.Context, limit int) ([]*audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*audit.Entry, 0, len(m.Entries))
	for i := len(m.Entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.Entries[i])
	}
	return out, nil
}

func (m *MemoryAudit) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Action)
	}
	return out
}
