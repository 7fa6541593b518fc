package domain

import (
	"github.com/google/uuid"
)

// --- Quote DTOs ---

// QuoteLineItemRequest is one priced row submitted by a contractor.
// LineTotal is never accepted from the caller; it is always recomputed.
type QuoteLineItemRequest struct {
	ItemDescription string  `json:"itemDescription" validate:"required,max=500"`
	Quantity        float64 `json:"quantity" validate:"required"`
	Rate            float64 `json:"rate"`
	DisplayOrder    int     `json:"displayOrder"`
}

// CreateQuoteRequest is the payload for submitting a new quote
type CreateQuoteRequest struct {
	ProjectIdentifier string                 `json:"projectIdentifier" validate:"required,max=50"`
	LotIdentifier     string                 `json:"lotIdentifier"`
	Category          string                 `json:"category,omitempty" validate:"max=100"`
	LineItems         []QuoteLineItemRequest `json:"lineItems"`
}

// RejectQuoteRequest carries the mandatory rejection reason
type RejectQuoteRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type QuoteLineItemDTO struct {
	LineItemID      uuid.UUID `json:"lineItemId"`
	ItemDescription string    `json:"itemDescription"`
	Quantity        float64   `json:"quantity"`
	Rate            float64   `json:"rate"`
	LineTotal       float64   `json:"lineTotal"`
	DisplayOrder    int       `json:"displayOrder"`
}

type QuoteDTO struct {
	QuoteNumber       string             `json:"quoteNumber"`
	ProjectIdentifier string             `json:"projectIdentifier"`
	LotIdentifier     *uuid.UUID         `json:"lotIdentifier,omitempty"`
	ContractorID      string             `json:"contractorId"`
	Category          string             `json:"category,omitempty"`
	Status            QuoteStatus        `json:"status"`
	RejectionReason   string             `json:"rejectionReason,omitempty"`
	TotalAmount       float64            `json:"totalAmount"`
	LineItems         []QuoteLineItemDTO `json:"lineItems"`
	CreatedAt         string             `json:"createdAt"` // ISO 8601
	UpdatedAt         string             `json:"updatedAt"` // ISO 8601
}

// --- Project DTOs ---

type CreateProjectRequest struct {
	ProjectName string  `json:"projectName" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	CustomerID  *string `json:"customerId,omitempty" validate:"omitempty,max=50"`
}

type UpdateProjectRequest struct {
	ProjectName string        `json:"projectName" validate:"required,max=200"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status" validate:"required"`
}

// AssignTeamMemberRequest names the user to place in a project role
type AssignTeamMemberRequest struct {
	UserID string `json:"userId" validate:"required,max=50"`
}

type ProjectDTO struct {
	ProjectIdentifier string        `json:"projectIdentifier"`
	ProjectName       string        `json:"projectName"`
	Description       string        `json:"description,omitempty"`
	Status            ProjectStatus `json:"status"`
	ContractorID      *string       `json:"contractorId,omitempty"`
	SalespersonID     *string       `json:"salespersonId,omitempty"`
	CustomerID        *string       `json:"customerId,omitempty"`
	CreatedAt         string        `json:"createdAt"` // ISO 8601
	UpdatedAt         string        `json:"updatedAt"` // ISO 8601
}

type ActivityLogDTO struct {
	ProjectIdentifier string       `json:"projectIdentifier"`
	ActivityType      ActivityType `json:"activityType"`
	UserIdentifier    string       `json:"userIdentifier"`
	UserName          string       `json:"userName,omitempty"`
	ChangedBy         string       `json:"changedBy,omitempty"`
	ChangedByName     string       `json:"changedByName,omitempty"`
	Timestamp         string       `json:"timestamp"` // ISO 8601
	Description       string       `json:"description,omitempty"`
}

// --- Lot DTOs ---

type CreateLotRequest struct {
	ProjectIdentifier      string  `json:"projectIdentifier" validate:"required,max=50"`
	LotNumber              string  `json:"lotNumber" validate:"required,max=50"`
	CivicAddress           string  `json:"civicAddress,omitempty" validate:"max=500"`
	Price                  float64 `json:"price" validate:"gte=0"`
	DimensionsSquareFeet   float64 `json:"dimensionsSquareFeet,omitempty"`
	DimensionsSquareMeters float64 `json:"dimensionsSquareMeters,omitempty"`
}

type LotDTO struct {
	LotID                  uuid.UUID `json:"lotId"`
	ProjectIdentifier      string    `json:"projectIdentifier"`
	LotNumber              string    `json:"lotNumber"`
	CivicAddress           string    `json:"civicAddress,omitempty"`
	Price                  float64   `json:"price"`
	DimensionsSquareFeet   float64   `json:"dimensionsSquareFeet,omitempty"`
	DimensionsSquareMeters float64   `json:"dimensionsSquareMeters,omitempty"`
	Status                 LotStatus `json:"status"`
	AssignedUsers          []UserDTO `json:"assignedUsers,omitempty"`
	CreatedAt              string    `json:"createdAt"` // ISO 8601
	UpdatedAt              string    `json:"updatedAt"` // ISO 8601
}

// AssignLotUserRequest names the user to add to a lot's assigned set
type AssignLotUserRequest struct {
	UserID string `json:"userId" validate:"required,max=50"`
}

// --- User DTOs ---

type UserDTO struct {
	UserIdentifier string   `json:"userIdentifier"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	FullName       string   `json:"fullName"`
	Email          string   `json:"email,omitempty"`
	Role           UserRole `json:"role"`
}

// --- Notification DTOs ---

type NotificationDTO struct {
	NotificationID  uuid.UUID            `json:"notificationId"`
	RecipientUserID string               `json:"recipientUserId"`
	Title           string               `json:"title"`
	Message         string               `json:"message,omitempty"`
	Link            string               `json:"link,omitempty"`
	Category        NotificationCategory `json:"category"`
	Read            bool                 `json:"read"`
	CreatedAt       string               `json:"createdAt"` // ISO 8601
}

// --- Lot document DTOs ---

type LotDocumentDTO struct {
	DocumentID  uuid.UUID `json:"documentId"`
	LotID       uuid.UUID `json:"lotId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   string    `json:"createdAt"` // ISO 8601
}

// ErrorResponse represents a simple API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
