package service_test

import (
	"context"
	"testing"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newProjectService(t *testing.T) (*service.ProjectService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	return service.NewProjectService(repository.NewProjectRepository(db), zap.NewNop()), db
}

func TestCreateProject_GeneratesSequentialIdentifiers(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.CreateProjectRequest{ProjectName: "Hillside Phase 1"})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-00001", first.ProjectIdentifier)
	assert.Equal(t, domain.ProjectStatusPlanned, first.Status)

	second, err := svc.Create(ctx, &domain.CreateProjectRequest{ProjectName: "Hillside Phase 2"})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-00002", second.ProjectIdentifier)
}

func TestCreateProject_NumbersFromMaxNotCount(t *testing.T) {
	svc, db := newProjectService(t)

	// A gap in the sequence must not cause identifier reuse
	testutil.CreateTestProject(t, db, "PRJ-00041")

	project, err := svc.Create(context.Background(), &domain.CreateProjectRequest{ProjectName: "Next"})
	require.NoError(t, err)
	assert.Equal(t, "PRJ-00042", project.ProjectIdentifier)
}

func TestGetProjectByIdentifier(t *testing.T) {
	svc, db := newProjectService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00007")

	project, err := svc.GetByIdentifier(ctx, "PRJ-00007")
	require.NoError(t, err)
	assert.Equal(t, "PRJ-00007", project.ProjectIdentifier)

	_, err = svc.GetByIdentifier(ctx, "PRJ-99999")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
	assert.Contains(t, err.Error(), "with identifier: PRJ-99999")
}

func TestListProjects(t *testing.T) {
	svc, db := newProjectService(t)
	ctx := context.Background()

	for _, id := range []string{"PRJ-00001", "PRJ-00002", "PRJ-00003"} {
		testutil.CreateTestProject(t, db, id)
	}

	projects, total, err := svc.List(ctx, 1, 2, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, projects, 2)

	projects, _, err = svc.List(ctx, 2, 2, nil)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestListProjects_FiltersByStatus(t *testing.T) {
	svc, db := newProjectService(t)
	ctx := context.Background()

	testutil.CreateTestProject(t, db, "PRJ-00001")
	active := testutil.CreateTestProject(t, db, "PRJ-00002")
	active.Status = domain.ProjectStatusInProgress
	require.NoError(t, db.Save(active).Error)

	status := domain.ProjectStatusInProgress
	projects, total, err := svc.List(ctx, 1, 20, &status)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, projects, 1)
	assert.Equal(t, "PRJ-00002", projects[0].ProjectIdentifier)

	bogus := domain.ProjectStatus("DEMOLISHED")
	_, _, err = svc.List(ctx, 1, 20, &bogus)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestUpdateProject(t *testing.T) {
	svc, db := newProjectService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")

	updated, err := svc.Update(ctx, "PRJ-00001", &domain.UpdateProjectRequest{
		ProjectName: "Renamed",
		Description: "Now under construction",
		Status:      domain.ProjectStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.ProjectName)
	assert.Equal(t, domain.ProjectStatusInProgress, updated.Status)

	_, err = svc.Update(ctx, "PRJ-00001", &domain.UpdateProjectRequest{
		ProjectName: "Renamed",
		Status:      domain.ProjectStatus("DEMOLISHED"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Update(ctx, "PRJ-99999", &domain.UpdateProjectRequest{
		ProjectName: "Ghost",
		Status:      domain.ProjectStatusInProgress,
	})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestDeleteProject(t *testing.T) {
	svc, db := newProjectService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")

	require.NoError(t, svc.Delete(ctx, "PRJ-00001"))

	_, err := svc.GetByIdentifier(ctx, "PRJ-00001")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	err = svc.Delete(ctx, "PRJ-00001")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}
