package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/service"
	"github.com/lcdc-construction/projects-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newQuoteNumberService(t *testing.T) (*service.QuoteNumberService, *repository.QuoteRepository) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	return service.NewQuoteNumberService(repo, zap.NewNop()), repo
}

func createQuoteWithNumber(t *testing.T, repo *repository.QuoteRepository, number string) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Quote{
		QuoteNumber:       number,
		ProjectIdentifier: "PRJ-00001",
		ContractorID:      "auth0|contractor",
		Status:            domain.QuoteStatusSubmitted,
	})
	require.NoError(t, err)
}

func TestGenerateNextQuoteNumber_FirstQuote(t *testing.T) {
	svc, _ := newQuoteNumberService(t)

	number, err := svc.GenerateNextQuoteNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "QT-0000001", number)
}

func TestGenerateNextQuoteNumber_Increments(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		expected string
	}{
		{
			name:     "increments past single quote",
			existing: []string{"QT-0000005"},
			expected: "QT-0000006",
		},
		{
			name:     "uses the maximum, not the count",
			existing: []string{"QT-0000001", "QT-0000042"},
			expected: "QT-0000043",
		},
		{
			name:     "padding shrinks as the sequence grows",
			existing: []string{"QT-0001234"},
			expected: "QT-0001235",
		},
		{
			name:     "seven digits at the top of the range",
			existing: []string{"QT-9999998"},
			expected: "QT-9999999",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newQuoteNumberService(t)
			for _, number := range tc.existing {
				createQuoteWithNumber(t, repo, number)
			}

			number, err := svc.GenerateNextQuoteNumber(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, number)
		})
	}
}

func TestGenerateNextQuoteNumber_SequenceExhausted(t *testing.T) {
	svc, repo := newQuoteNumberService(t)
	createQuoteWithNumber(t, repo, "QT-9999999")

	_, err := svc.GenerateNextQuoteNumber(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrSequenceExhausted)
}

func TestGenerateNextQuoteNumber_PaddingIsStable(t *testing.T) {
	svc, repo := newQuoteNumberService(t)

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		number, err := svc.GenerateNextQuoteNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("QT-%07d", i), number)
		assert.Len(t, number, 10)
		createQuoteWithNumber(t, repo, number)
	}
}
