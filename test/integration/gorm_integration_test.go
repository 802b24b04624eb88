package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/repository/specification"
	"ai-studyguide-be/internal/repository/unitofwork"
	"ai-studyguide-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.StudySessionRepository())
	assert.NotNil(t, uow.GuideEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Study Session Repository", func(t *testing.T) {
		count, err := uow.StudySessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Study session count: %d", count)
	})

	t.Run("Check Guide Embedding Repository", func(t *testing.T) {
		// Count implies the table and vector column exist.
		count, err := uow.GuideEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Guide embedding count: %d", count)
	})

	t.Run("Session Snapshot Round Trip", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.StudySessionRepository()

		session := &entity.StudySession{
			Id:    uuid.New(),
			State: entity.StateStudyTopics,
		}
		require.NoError(t, repo.Create(ctx, session))
		defer func() {
			assert.NoError(t, repo.Delete(ctx, session.Id))
		}()

		found, err := repo.FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.StateStudyTopics, found.State)
	})
}
