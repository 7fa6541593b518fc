package service

import (
	"context"
	"fmt"

	"github.com/lcdc-construction/projects-api/internal/repository"
	"go.uber.org/zap"
)

const (
	quoteNumberPrefix = "QT-"

	// maxQuoteSequence is a hard ceiling. Once reached, number generation
	// fails rather than rolling over.
	maxQuoteSequence = 9_999_999
)

// QuoteNumberService produces the next quote number from the current
// maximum sequence recorded by the quote store.
//
// Format: QT-NNNNNNN (7-digit, zero-padded). Example: QT-0000006.
type QuoteNumberService struct {
	quoteRepo *repository.QuoteRepository
	logger    *zap.Logger
}

// NewQuoteNumberService creates a new QuoteNumberService
func NewQuoteNumberService(quoteRepo *repository.QuoteRepository, logger *zap.Logger) *QuoteNumberService {
	return &QuoteNumberService{
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// GenerateNextQuoteNumber computes the next quote number. It reads the
// current maximum sequence and adds one; with no quotes stored yet the
// sequence starts at 1. This is a pure read-then-compute step with no side
// effects, so two concurrent callers can compute the same number —
// uniqueness is enforced by the unique index on quote_number and the
// caller's retry on conflict.
func (s *QuoteNumberService) GenerateNextQuoteNumber(ctx context.Context) (string, error) {
	max, found, err := s.quoteRepo.FindMaxQuoteSequence(ctx)
	if err != nil {
		s.logger.Error("failed to read max quote sequence", zap.Error(err))
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	nextSeq := 1
	if found {
		nextSeq = max + 1
	}

	if nextSeq > maxQuoteSequence {
		s.logger.Error("quote number sequence exhausted",
			zap.Int("maxSequence", max))
		return "", ErrSequenceExhausted
	}

	number := fmt.Sprintf("%s%07d", quoteNumberPrefix, nextSeq)

	s.logger.Info("generated quote number",
		zap.String("quoteNumber", number),
		zap.Int("sequence", nextSeq))

	return number, nil
}
