package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLotService(t *testing.T) (*service.LotService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	svc := service.NewLotService(
		repository.NewLotRepository(db),
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestCreateLot(t *testing.T) {
	svc, db := newLotService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")

	lot, err := svc.Create(ctx, &domain.CreateLotRequest{
		ProjectIdentifier: "PRJ-00001",
		LotNumber:         "L-101",
		CivicAddress:      "12 Birchwood Lane",
		Price:             185000,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, lot.LotID)
	assert.Equal(t, "L-101", lot.LotNumber)
	assert.Equal(t, domain.LotStatusAvailable, lot.Status)

	_, err = svc.Create(ctx, &domain.CreateLotRequest{
		ProjectIdentifier: "PRJ-99999",
		LotNumber:         "L-102",
	})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestGetLotByID(t *testing.T) {
	svc, db := newLotService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")
	created := testutil.CreateTestLot(t, db, "PRJ-00001")

	lot, err := svc.GetByID(ctx, created.LotID)
	require.NoError(t, err)
	assert.Equal(t, created.LotID, lot.LotID)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrLotNotFound)
}

func TestListLotsByProject(t *testing.T) {
	svc, db := newLotService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")
	testutil.CreateTestLot(t, db, "PRJ-00001")
	testutil.CreateTestLot(t, db, "PRJ-00001")

	lots, err := svc.ListByProject(ctx, "PRJ-00001")
	require.NoError(t, err)
	assert.Len(t, lots, 2)

	_, err = svc.ListByProject(ctx, "PRJ-99999")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestAssignUserToLot(t *testing.T) {
	svc, db := newLotService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")
	lot := testutil.CreateTestLot(t, db, "PRJ-00001")
	contractor := testutil.CreateTestUser(t, db, "contractor-1", domain.RoleContractor)

	updated, err := svc.AssignUser(ctx, lot.LotID, contractor.UserIdentifier)
	require.NoError(t, err)
	require.Len(t, updated.AssignedUsers, 1)
	assert.Equal(t, contractor.UserIdentifier, updated.AssignedUsers[0].UserIdentifier)

	// Assigning the same user again is a no-op
	updated, err = svc.AssignUser(ctx, lot.LotID, contractor.UserIdentifier)
	require.NoError(t, err)
	assert.Len(t, updated.AssignedUsers, 1)

	_, err = svc.AssignUser(ctx, lot.LotID, "ghost")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = svc.AssignUser(ctx, uuid.New(), contractor.UserIdentifier)
	assert.ErrorIs(t, err, service.ErrLotNotFound)
}

func TestUnassignUserFromLot(t *testing.T) {
	svc, db := newLotService(t)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, "PRJ-00001")
	contractor := testutil.CreateTestUser(t, db, "contractor-1", domain.RoleContractor)
	customer := testutil.CreateTestUser(t, db, "customer-1", domain.RoleCustomer)
	lot := testutil.CreateTestLot(t, db, "PRJ-00001", contractor, customer)

	updated, err := svc.UnassignUser(ctx, lot.LotID, contractor.UserIdentifier)
	require.NoError(t, err)
	require.Len(t, updated.AssignedUsers, 1)
	assert.Equal(t, customer.UserIdentifier, updated.AssignedUsers[0].UserIdentifier)
}
