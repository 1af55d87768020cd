package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAssignmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  system_role TEXT NOT NULL DEFAULT 'staff',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE agents (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  availability TEXT NOT NULL DEFAULT 'available',
  daily_capacity INTEGER NOT NULL DEFAULT 5,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE leads (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_phone TEXT,
  customer_email TEXT,
  address TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'new',
  assignment_state TEXT NOT NULL DEFAULT 'unassigned',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE schedules (
  id TEXT PRIMARY KEY,
  lead_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  time_slot TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE assignments (
  id TEXT PRIMARY KEY,
  lead_id TEXT NOT NULL,
  schedule_id TEXT NOT NULL,
  agent_id TEXT NOT NULL,
  assigned_by_user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  is_active INTEGER NOT NULL DEFAULT 1,
  assigned_at DATETIME,
  started_at DATETIME,
  completed_at DATETIME,
  notes TEXT,
  completion_images TEXT NOT NULL DEFAULT '{}',
  updated_at DATETIME
);`,
		`CREATE TABLE task_logs (
  id TEXT PRIMARY KEY,
  assignment_id TEXT NOT NULL,
  from_status TEXT NOT NULL,
  to_status TEXT NOT NULL,
  changed_by_user_id TEXT NOT NULL,
  reason TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedWorld(t *testing.T, db *gorm.DB, date time.Time) (lead models.Lead, schedule models.Schedule, agent models.Agent, user models.User) {
	t.Helper()

	user = models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@tidyops.io",
		PasswordHash: "x",
		FirstName:    "Robin",
		LastName:     "Vega",
		SystemRole:   enums.SystemRoleAgent,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	agent = models.Agent{
		ID:            uuid.New(),
		UserID:        user.ID,
		Availability:  enums.AgentAvailable,
		DailyCapacity: 5,
		Status:        enums.AgentStatusActive,
	}
	require.NoError(t, db.Create(&agent).Error)

	lead = models.Lead{
		ID:              uuid.New(),
		CustomerName:    "Casey Nolan",
		Address:         "8 Elm Ave",
		Status:          enums.LeadStatusScheduled,
		AssignmentState: enums.LeadUnassigned,
	}
	require.NoError(t, db.Create(&lead).Error)

	schedule = models.Schedule{
		ID:              uuid.New(),
		LeadID:          lead.ID,
		Date:            date,
		TimeSlot:        "9:00 AM",
		DurationMinutes: 120,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&schedule).Error)

	return lead, schedule, agent, user
}

func TestRepositoryCreateAndFindAssignment(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	lead, schedule, agent, user := seedWorld(t, db, date)

	assignment := &models.Assignment{
		ID:               uuid.New(),
		LeadID:           lead.ID,
		ScheduleID:       schedule.ID,
		AgentID:          agent.ID,
		AssignedByUserID: user.ID,
		Status:           enums.AssignmentStatusPending,
		IsActive:         true,
		CompletionImages: pq.StringArray{},
	}
	_, err := repo.CreateAssignment(ctx, assignment)
	require.NoError(t, err)

	found, err := repo.FindAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, found.LeadID)
	require.NotNil(t, found.Schedule)
	assert.Equal(t, "9:00 AM", found.Schedule.TimeSlot)
	require.NotNil(t, found.Agent)
	assert.False(t, found.AssignedAt.IsZero())
}

func TestRepositoryFindActiveByLead(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	lead, schedule, agent, user := seedWorld(t, db, date)

	none, err := repo.FindActiveByLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	assignment := &models.Assignment{
		ID:               uuid.New(),
		LeadID:           lead.ID,
		ScheduleID:       schedule.ID,
		AgentID:          agent.ID,
		AssignedByUserID: user.ID,
		Status:           enums.AssignmentStatusPending,
		IsActive:         true,
		CompletionImages: pq.StringArray{},
	}
	_, err = repo.CreateAssignment(ctx, assignment)
	require.NoError(t, err)

	found, err := repo.FindActiveByLead(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, assignment.ID, found.ID)

	require.NoError(t, repo.UpdateAssignment(ctx, assignment.ID, map[string]any{"is_active": false}))
	gone, err := repo.FindActiveByLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRepositoryListActiveOnDate(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	leadA, scheduleA, agent, user := seedWorld(t, db, today)
	leadB, scheduleB, _, _ := seedWorld(t, db, tomorrow)

	for _, pair := range []struct {
		lead     models.Lead
		schedule models.Schedule
	}{
		{leadA, scheduleA},
		{leadB, scheduleB},
	} {
		_, err := repo.CreateAssignment(ctx, &models.Assignment{
			ID:               uuid.New(),
			LeadID:           pair.lead.ID,
			ScheduleID:       pair.schedule.ID,
			AgentID:          agent.ID,
			AssignedByUserID: user.ID,
			Status:           enums.AssignmentStatusPending,
			IsActive:         true,
			CompletionImages: pq.StringArray{},
		})
		require.NoError(t, err)
	}

	rows, err := repo.ListActiveOnDate(ctx, agent.ID, today)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, leadA.ID, rows[0].LeadID)
	require.NotNil(t, rows[0].Schedule)
}

func TestRepositoryCountActiveAssignedOn(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	lead, schedule, agent, user := seedWorld(t, db, date)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	for _, assignedAt := range []time.Time{now, now.Add(-time.Hour), yesterday} {
		require.NoError(t, db.Create(&models.Assignment{
			ID:               uuid.New(),
			LeadID:           lead.ID,
			ScheduleID:       schedule.ID,
			AgentID:          agent.ID,
			AssignedByUserID: user.ID,
			Status:           enums.AssignmentStatusPending,
			IsActive:         true,
			AssignedAt:       assignedAt,
			CompletionImages: pq.StringArray{},
		}).Error)
	}

	count, err := repo.CountActiveAssignedOn(ctx, agent.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryTaskLogsOrdered(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	lead, schedule, agent, user := seedWorld(t, db, date)

	assignment := &models.Assignment{
		ID:               uuid.New(),
		LeadID:           lead.ID,
		ScheduleID:       schedule.ID,
		AgentID:          agent.ID,
		AssignedByUserID: user.ID,
		Status:           enums.AssignmentStatusPending,
		IsActive:         true,
		CompletionImages: pq.StringArray{},
	}
	_, err := repo.CreateAssignment(ctx, assignment)
	require.NoError(t, err)

	base := time.Now().Add(-time.Minute)
	steps := []struct {
		from enums.AssignmentStatus
		to   enums.AssignmentStatus
	}{
		{enums.AssignmentStatusPending, enums.AssignmentStatusInProgress},
		{enums.AssignmentStatusInProgress, enums.AssignmentStatusCompleted},
	}
	for i, step := range steps {
		require.NoError(t, repo.CreateTaskLog(ctx, &models.TaskLog{
			ID:              uuid.New(),
			AssignmentID:    assignment.ID,
			FromStatus:      step.from,
			ToStatus:        step.to,
			ChangedByUserID: user.ID,
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		}))
	}

	logs, err := repo.ListTaskLogs(ctx, assignment.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, enums.AssignmentStatusInProgress, logs[0].ToStatus)
	assert.Equal(t, enums.AssignmentStatusCompleted, logs[1].ToStatus)
}

func TestRepositoryListAssignmentsPagination(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	lead, schedule, agent, user := seedWorld(t, db, date)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Assignment{
			ID:               uuid.New(),
			LeadID:           lead.ID,
			ScheduleID:       schedule.ID,
			AgentID:          agent.ID,
			AssignedByUserID: user.ID,
			Status:           enums.AssignmentStatusPending,
			IsActive:         true,
			AssignedAt:       base.Add(time.Duration(i) * time.Minute),
			CompletionImages: pq.StringArray{},
		}).Error)
	}

	page, err := repo.ListAssignments(ctx, pagination.Params{Limit: 2}, Filters{AgentID: &agent.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.NextCursor)

	rest, err := repo.ListAssignments(ctx, pagination.Params{Limit: 2, Cursor: *page.NextCursor}, Filters{AgentID: &agent.ID})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Nil(t, rest.NextCursor)
	assert.True(t, page.Items[1].AssignedAt.After(rest.Items[0].AssignedAt))
}
