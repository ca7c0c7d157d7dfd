package integration

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/model"
	"mathdoc-be/internal/pkg/logger"
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/internal/repository/specification"
	"mathdoc-be/internal/repository/unitofwork"
	"mathdoc-be/internal/service"
	"mathdoc-be/pkg/database"
	"mathdoc-be/pkg/site"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Directory{}, &model.Document{}, &model.Revision{}))
	return gormDB
}

func TestGormRepositories(t *testing.T) {
	gormDB := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)

	dirId := uuid.New()
	docId := uuid.New()
	handle := "integration-" + docId.String()
	t.Cleanup(func() {
		_ = uow.RevisionRepository().DeleteByDocumentId(ctx, docId)
		gormDB.Unscoped().Delete(&model.Document{}, docId)
		gormDB.Unscoped().Delete(&model.Directory{}, dirId)
	})

	t.Run("create in transaction", func(t *testing.T) {
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		require.NoError(t, uow.DirectoryRepository().Create(ctx, &entity.Directory{Id: dirId, Name: "Integration"}))
		require.NoError(t, uow.DocumentRepository().Create(ctx, &entity.Document{
			Id:          docId,
			Handle:      handle,
			Name:        "Integration Doc",
			DirectoryId: &dirId,
			Published:   true,
		}))
		for i, body := range []string{`{"root":{"children":[]}}`, `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"v2"}]}]}}`} {
			require.NoError(t, uow.RevisionRepository().Create(ctx, &entity.Revision{
				Id:         uuid.New(),
				DocumentId: docId,
				Data:       []byte(body),
				CreatedAt:  time.Now().Add(time.Duration(i) * time.Second),
			}))
		}
		require.NoError(t, uow.Commit())
	})

	t.Run("find by specifications", func(t *testing.T) {
		doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByHandle{Handle: handle})
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, docId, doc.Id)

		count, err := uow.DocumentRepository().Count(ctx, specification.ByDirectoryID{DirectoryID: &dirId})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		latest, err := uow.RevisionRepository().FindLatest(ctx, docId)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Contains(t, string(latest.Data), "v2")

		missing, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate handle is a conflict", func(t *testing.T) {
		err := uow.DocumentRepository().Create(ctx, &entity.Document{Id: uuid.New(), Handle: handle, Name: "dup"})
		assert.ErrorIs(t, err, serverutils.ErrConflict)
	})

	t.Run("export writes the post", func(t *testing.T) {
		root := t.TempDir()
		exports := service.NewExportService(
			unitofwork.NewRepositoryFactory(gormDB),
			site.NewAssembler(nil, site.DefaultShell()),
			nil,
			service.ExportOptions{Root: root},
			nil,
			logger.NewNopLogger(),
		)
		report, err := exports.ExportOne(ctx, "", docId)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "blog", handle, "index.html")}, report.Written)
	})
}
