package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/lcdc-construction/projects-api/internal/mapper"
	"github.com/lcdc-construction/projects-api/internal/repository"
	"github.com/lcdc-construction/projects-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LotDocumentService manages documents attached to lots. Content goes to
// blob storage; metadata is recorded alongside the lot.
type LotDocumentService struct {
	documentRepo *repository.LotDocumentRepository
	lotRepo      *repository.LotRepository
	store        storage.Storage
	logger       *zap.Logger
}

// NewLotDocumentService creates a new LotDocumentService
func NewLotDocumentService(
	documentRepo *repository.LotDocumentRepository,
	lotRepo *repository.LotRepository,
	store storage.Storage,
	logger *zap.Logger,
) *LotDocumentService {
	return &LotDocumentService{
		documentRepo: documentRepo,
		lotRepo:      lotRepo,
		store:        store,
		logger:       logger,
	}
}

// Upload stores a document's content and records its metadata against the lot
func (s *LotDocumentService) Upload(ctx context.Context, lotID uuid.UUID, fileName, contentType, uploadedBy string, content io.Reader) (*domain.LotDocumentDTO, error) {
	if _, err := s.lotRepo.GetByLotID(ctx, lotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w with identifier: %s", ErrLotNotFound, lotID)
		}
		return nil, fmt.Errorf("failed to verify lot: %w", err)
	}

	blobPath, size, err := s.store.Upload(ctx, fileName, contentType, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.LotDocument{
		DocumentID:  uuid.New(),
		LotID:       lotID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		BlobPath:    blobPath,
		UploadedBy:  uploadedBy,
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		// The content is already in storage; remove it so no orphan blob
		// remains behind a failed metadata write.
		if delErr := s.store.Delete(ctx, blobPath); delErr != nil {
			s.logger.Warn("failed to remove orphaned blob",
				zap.String("blobPath", blobPath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	s.logger.Info("lot document uploaded",
		zap.String("documentId", doc.DocumentID.String()),
		zap.String("lotId", lotID.String()),
		zap.String("fileName", fileName),
		zap.Int64("sizeBytes", size))

	dto := mapper.ToLotDocumentDTO(doc)
	return &dto, nil
}

// Download returns a document's content stream and metadata
func (s *LotDocumentService) Download(ctx context.Context, documentID uuid.UUID) (io.ReadCloser, *domain.LotDocumentDTO, error) {
	doc, err := s.getDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.store.Download(ctx, doc.BlobPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch document content: %w", err)
	}

	dto := mapper.ToLotDocumentDTO(doc)
	return content, &dto, nil
}

// List returns all document metadata for a lot, newest first
func (s *LotDocumentService) List(ctx context.Context, lotID uuid.UUID) ([]domain.LotDocumentDTO, error) {
	docs, err := s.documentRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return mapper.ToLotDocumentDTOs(docs), nil
}

// Delete removes a document's metadata and content
func (s *LotDocumentService) Delete(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.getDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	if err := s.store.Delete(ctx, doc.BlobPath); err != nil {
		s.logger.Warn("failed to delete document content",
			zap.String("documentId", documentID.String()),
			zap.String("blobPath", doc.BlobPath),
			zap.Error(err))
	}

	return nil
}

func (s *LotDocumentService) getDocument(ctx context.Context, documentID uuid.UUID) (*domain.LotDocument, error) {
	doc, err := s.documentRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}
