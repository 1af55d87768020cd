package eligibility

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/config"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubEligibilityRepo struct {
	schedules   map[uuid.UUID]*models.Schedule
	agents      []models.Agent
	counts      map[uuid.UUID]int64
	assignments map[uuid.UUID][]models.Assignment
}

func newStubRepo() *stubEligibilityRepo {
	return &stubEligibilityRepo{
		schedules:   make(map[uuid.UUID]*models.Schedule),
		counts:      make(map[uuid.UUID]int64),
		assignments: make(map[uuid.UUID][]models.Assignment),
	}
}

func (s *stubEligibilityRepo) FindSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	schedule, ok := s.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (s *stubEligibilityRepo) ListActiveAgents(ctx context.Context) ([]models.Agent, error) {
	var active []models.Agent
	for _, agent := range s.agents {
		if agent.Status == enums.AgentStatusActive {
			active = append(active, agent)
		}
	}
	return active, nil
}

func (s *stubEligibilityRepo) CountActiveAssignedOn(ctx context.Context, agentID uuid.UUID, day time.Time) (int64, error) {
	return s.counts[agentID], nil
}

func (s *stubEligibilityRepo) ListActiveOnDate(ctx context.Context, agentID uuid.UUID, date time.Time) ([]models.Assignment, error) {
	key := date.Format("2006-01-02")
	var rows []models.Assignment
	for _, row := range s.assignments[agentID] {
		if row.Schedule != nil && row.Schedule.DateKey() == key {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil, config.SchedulingConfig{BufferMinutes: 120, DefaultDailyCapacity: 5})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func addAgent(repo *stubEligibilityRepo, availability enums.AgentAvailability, capacity int) uuid.UUID {
	agent := models.Agent{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Availability:  availability,
		DailyCapacity: capacity,
		Status:        enums.AgentStatusActive,
	}
	repo.agents = append(repo.agents, agent)
	return agent.ID
}

func addSchedule(repo *stubEligibilityRepo, slot string, duration int, date time.Time) uuid.UUID {
	id := uuid.New()
	repo.schedules[id] = &models.Schedule{
		ID:              id,
		LeadID:          uuid.New(),
		Date:            date,
		TimeSlot:        slot,
		DurationMinutes: duration,
		IsActive:        true,
	}
	return id
}

func addBooking(repo *stubEligibilityRepo, agentID uuid.UUID, slot string, duration int, date time.Time) {
	repo.assignments[agentID] = append(repo.assignments[agentID], models.Assignment{
		ID:       uuid.New(),
		AgentID:  agentID,
		IsActive: true,
		Schedule: &models.Schedule{
			ID:              uuid.New(),
			Date:            date,
			TimeSlot:        slot,
			DurationMinutes: duration,
			IsActive:        true,
		},
	})
}

func TestEligibleAgentsHappyPath(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "9:00 AM", 120, date)
	agentID := addAgent(repo, enums.AgentAvailable, 5)

	eligible, err := svc.EligibleAgents(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("EligibleAgents returned error: %v", err)
	}
	if len(eligible) != 1 || eligible[0] != agentID {
		t.Fatalf("expected [%s], got %v", agentID, eligible)
	}
}

func TestEligibleAgentsScheduleNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	_, err := svc.EligibleAgents(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestEligibleAgentsInactiveSchedule(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "9:00 AM", 120, date)
	repo.schedules[scheduleID].IsActive = false

	_, err := svc.EligibleAgents(context.Background(), scheduleID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestEligibleAgentsUnparsableSlotFailsSafe(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "25:00 XM", 120, date)
	addAgent(repo, enums.AgentAvailable, 5)

	eligible, err := svc.EligibleAgents(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("expected nil error on unparsable slot, got %v", err)
	}
	if len(eligible) != 0 {
		t.Fatalf("expected empty set, got %v", eligible)
	}
}

func TestEligibleAgentsAvailabilityExclusion(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "9:00 AM", 120, date)
	addAgent(repo, enums.AgentOffDuty, 5)
	addAgent(repo, enums.AgentBusy, 5)
	available := addAgent(repo, enums.AgentAvailable, 5)

	eligible, err := svc.EligibleAgents(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("EligibleAgents returned error: %v", err)
	}
	if len(eligible) != 1 || eligible[0] != available {
		t.Fatalf("expected only the available agent, got %v", eligible)
	}
}

func TestEligibleAgentsCapacityExclusion(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "9:00 AM", 120, date)
	full := addAgent(repo, enums.AgentAvailable, 5)
	repo.counts[full] = 5

	eligible, err := svc.EligibleAgents(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("EligibleAgents returned error: %v", err)
	}
	if len(eligible) != 0 {
		t.Fatalf("expected agent at capacity to be excluded, got %v", eligible)
	}
}

func TestEligibleAgentsBufferExclusion(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "12:00 PM", 120, date)

	tooClose := addAgent(repo, enums.AgentAvailable, 5)
	addBooking(repo, tooClose, "9:00 AM", 120, date) // ends 11:00, gap 60

	farEnough := addAgent(repo, enums.AgentAvailable, 5)
	addBooking(repo, farEnough, "7:00 AM", 120, date) // ends 9:00, gap 180

	otherDay := addAgent(repo, enums.AgentAvailable, 5)
	addBooking(repo, otherDay, "12:00 PM", 120, date.AddDate(0, 0, 1))

	eligible, err := svc.EligibleAgents(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("EligibleAgents returned error: %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible agents, got %v", eligible)
	}
	for _, id := range eligible {
		if id == tooClose {
			t.Fatal("agent with a buffer conflict must be excluded")
		}
	}
}

func TestEligibleAgentsUnparsableExistingSlotDisqualifies(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	scheduleID := addSchedule(repo, "9:00 AM", 120, date)

	broken := addAgent(repo, enums.AgentAvailable, 5)
	addBooking(repo, broken, "bogus", 120, date)

	eligible, err := svc.EligibleAgents(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("EligibleAgents returned error: %v", err)
	}
	if len(eligible) != 0 {
		t.Fatalf("expected agent with unresolvable booking to be excluded, got %v", eligible)
	}
}
