package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/internal/storage"
	"github.com/lcdc-construction/projects-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type documentServiceFixture struct {
	svc *service.LotDocumentService
	lot *domain.Lot
}

func setupDocumentService(t *testing.T) *documentServiceFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := service.NewLotDocumentService(
		repository.NewLotDocumentRepository(db),
		repository.NewLotRepository(db),
		store,
		zap.NewNop(),
	)

	testutil.CreateTestProject(t, db, "PRJ-00001")
	return &documentServiceFixture{
		svc: svc,
		lot: testutil.CreateTestLot(t, db, "PRJ-00001"),
	}
}

func TestUploadAndDownloadDocument(t *testing.T) {
	f := setupDocumentService(t)
	ctx := context.Background()

	doc, err := f.svc.Upload(ctx, f.lot.LotID, "site-plan.pdf", "application/pdf",
		"auth0|uploader", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "site-plan.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.EqualValues(t, len("pdf bytes"), doc.SizeBytes)
	assert.Equal(t, "auth0|uploader", doc.UploadedBy)

	content, meta, err := f.svc.Download(ctx, doc.DocumentID)
	require.NoError(t, err)
	defer content.Close()

	data, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
	assert.Equal(t, doc.DocumentID, meta.DocumentID)
}

func TestUploadDocument_UnknownLot(t *testing.T) {
	f := setupDocumentService(t)

	_, err := f.svc.Upload(context.Background(), uuid.New(), "plan.pdf", "application/pdf",
		"auth0|uploader", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrLotNotFound)
}

func TestListDocuments(t *testing.T) {
	f := setupDocumentService(t)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf"} {
		_, err := f.svc.Upload(ctx, f.lot.LotID, name, "application/pdf",
			"auth0|uploader", strings.NewReader("content"))
		require.NoError(t, err)
	}

	docs, err := f.svc.List(ctx, f.lot.LotID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDeleteDocument(t *testing.T) {
	f := setupDocumentService(t)
	ctx := context.Background()

	doc, err := f.svc.Upload(ctx, f.lot.LotID, "plan.pdf", "application/pdf",
		"auth0|uploader", strings.NewReader("content"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, doc.DocumentID))

	_, _, err = f.svc.Download(ctx, doc.DocumentID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = f.svc.Delete(ctx, doc.DocumentID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
