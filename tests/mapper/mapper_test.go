package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToQuoteDTO(t *testing.T) {
	lotID := uuid.New()
	created := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	quote := &domain.Quote{
		QuoteNumber:       "QT-0000042",
		ProjectIdentifier: "PRJ-00001",
		LotID:             &lotID,
		ContractorID:      "auth0|contractor",
		Status:            domain.QuoteStatusSubmitted,
		TotalAmount:       1505,
		LineItems: []domain.QuoteLineItem{
			{
				LineItemID:      uuid.New(),
				ItemDescription: "Framing",
				Quantity:        10,
				Rate:            150.5,
				LineTotal:       1505,
				DisplayOrder:    1,
			},
		},
	}
	quote.CreatedAt = created
	quote.UpdatedAt = created

	dto := mapper.ToQuoteDTO(quote)

	assert.Equal(t, "QT-0000042", dto.QuoteNumber)
	require.NotNil(t, dto.LotIdentifier)
	assert.Equal(t, lotID, *dto.LotIdentifier)
	require.Len(t, dto.LineItems, 1)
	assert.Equal(t, "Framing", dto.LineItems[0].ItemDescription)
	assert.Equal(t, "2026-01-15T10:30:00Z", dto.CreatedAt)
}

func TestTimestampsAreUTCISO8601(t *testing.T) {
	// A non-UTC timestamp must be normalized to UTC in the DTO
	loc := time.FixedZone("UTC+2", 2*60*60)
	entry := &domain.ProjectActivityLog{
		ProjectIdentifier: "PRJ-00001",
		ActivityType:      domain.ActivityContractorAssigned,
		UserIdentifier:    "contractor-1",
		Timestamp:         time.Date(2026, 6, 1, 14, 0, 0, 0, loc),
	}

	dto := mapper.ToActivityLogDTO(entry)
	assert.Equal(t, "2026-06-01T12:00:00Z", dto.Timestamp)
}

func TestToUserDTO_FullName(t *testing.T) {
	user := &domain.User{
		UserIdentifier: "contractor-1",
		FirstName:      "Jordan",
		LastName:       "Smith",
		Role:           domain.RoleContractor,
	}

	dto := mapper.ToUserDTO(user)
	assert.Equal(t, "Jordan Smith", dto.FullName)
}

func TestToLotDTO_IncludesAssignedUsers(t *testing.T) {
	lot := &domain.Lot{
		LotID:             uuid.New(),
		ProjectIdentifier: "PRJ-00001",
		LotNumber:         "L-101",
		Status:            domain.LotStatusAvailable,
		AssignedUsers: []domain.User{
			{UserIdentifier: "contractor-1", FirstName: "Jordan", LastName: "Smith"},
			{UserIdentifier: "customer-1", FirstName: "Riley", LastName: "Chen"},
		},
	}

	dto := mapper.ToLotDTO(lot)
	require.Len(t, dto.AssignedUsers, 2)
	assert.Equal(t, "contractor-1", dto.AssignedUsers[0].UserIdentifier)
}

func TestSliceMappersHandleEmptyInput(t *testing.T) {
	assert.Empty(t, mapper.ToQuoteDTOs(nil))
	assert.Empty(t, mapper.ToProjectDTOs(nil))
	assert.Empty(t, mapper.ToActivityLogDTOs(nil))
	assert.Empty(t, mapper.ToNotificationDTOs(nil))
}
