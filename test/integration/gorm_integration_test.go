package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-studyflow-be/internal/entity"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return gormDB
}

func createTestUser(t *testing.T, uow unitofwork.UnitOfWork) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:    uuid.New(),
		Email: "test-integration-" + uuid.New().String() + "@example.com",
		Name:  "Integration Test",
	}
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func TestGormConnection(t *testing.T) {
	gormDB := testDB(t)

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.JobRepository())
	assert.NotNil(t, uow.SessionRunRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Job Repository", func(t *testing.T) {
		count, err := uow.JobRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Job count: %d", count)
	})
}

func TestJobStatusTransitions(t *testing.T) {
	gormDB := testDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)
	user := createTestUser(t, uow)

	job := &entity.Job{
		Id:      uuid.New(),
		UserId:  user.Id,
		Type:    entity.JobTypeMaterialProcessing,
		Status:  entity.JobStatusQueued,
		Payload: map[string]interface{}{"upload_id": uuid.New().String()},
	}
	require.NoError(t, uow.JobRepository().Create(ctx, job))

	t.Run("only one claimer wins", func(t *testing.T) {
		claimed, err := uow.JobRepository().MarkRunning(ctx, job.Id)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimedAgain, err := uow.JobRepository().MarkRunning(ctx, job.Id)
		require.NoError(t, err)
		assert.False(t, claimedAgain, "second claim must lose")
	})

	t.Run("progress never regresses", func(t *testing.T) {
		require.NoError(t, uow.JobRepository().UpdateProgress(ctx, job.Id, 0.6, "ANALYZING"))
		require.NoError(t, uow.JobRepository().UpdateProgress(ctx, job.Id, 0.3, "STORING"))

		found, err := uow.JobRepository().FindOne(ctx, specification.ByID{ID: job.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		require.NotNil(t, found.Progress)
		assert.InDelta(t, 0.6, *found.Progress, 0.0001, "stale progress report must not win")
		require.NotNil(t, found.CurrentStep)
		assert.Equal(t, "STORING", *found.CurrentStep)
	})

	t.Run("terminal state is immutable", func(t *testing.T) {
		ok, err := uow.JobRepository().MarkSucceeded(ctx, job.Id, map[string]interface{}{"material_id": uuid.New().String()})
		require.NoError(t, err)
		assert.True(t, ok)

		failed, err := uow.JobRepository().MarkFailed(ctx, job.Id, "X", "too late")
		require.NoError(t, err)
		assert.False(t, failed, "terminal job must not flip to FAILED")

		running, err := uow.JobRepository().MarkRunning(ctx, job.Id)
		require.NoError(t, err)
		assert.False(t, running, "terminal job must not restart")
	})
}

func TestSessionRunStartOrResume(t *testing.T) {
	gormDB := testDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)
	user := createTestUser(t, uow)

	plan := &entity.Plan{
		Id:     uuid.New(),
		UserId: user.Id,
		Title:  "Integration Plan",
		Goal:   "learn integration testing",
		Status: entity.PlanStatusReady,
	}
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))

	session := &entity.Session{
		Id:     uuid.New(),
		PlanId: plan.Id,
		Title:  "Session 1",
		Blueprint: []entity.BlueprintStep{
			{Title: "Read", Kind: "READ"},
			{Title: "Recall", Kind: "RECALL"},
		},
	}
	require.NoError(t, uow.SessionRepository().CreateBulk(ctx, []*entity.Session{session}))

	first := &entity.SessionRun{
		Id:        uuid.New(),
		SessionId: session.Id,
		PlanId:    plan.Id,
		UserId:    user.Id,
		Status:    entity.SessionRunStatusRunning,
	}
	require.NoError(t, uow.SessionRunRepository().Create(ctx, first))

	t.Run("second running run is rejected by the partial index", func(t *testing.T) {
		dup := &entity.SessionRun{
			Id:        uuid.New(),
			SessionId: session.Id,
			PlanId:    plan.Id,
			UserId:    user.Id,
			Status:    entity.SessionRunStatusRunning,
		}
		err := uow.SessionRunRepository().Create(ctx, dup)
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("finished run frees the slot", func(t *testing.T) {
		require.NoError(t, first.Abandon("", first.StartedAt))
		require.NoError(t, uow.SessionRunRepository().Update(ctx, first))

		next := &entity.SessionRun{
			Id:        uuid.New(),
			SessionId: session.Id,
			PlanId:    plan.Id,
			UserId:    user.Id,
			Status:    entity.SessionRunStatusRunning,
		}
		assert.NoError(t, uow.SessionRunRepository().Create(ctx, next))
	})
}
