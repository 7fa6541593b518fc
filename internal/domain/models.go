package domain

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel holds the common surrogate key and store-managed timestamps.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// UserRole represents the role a user holds in the platform
type UserRole string

const (
	RoleOwner       UserRole = "OWNER"
	RoleContractor  UserRole = "CONTRACTOR"
	RoleSalesperson UserRole = "SALESPERSON"
	RoleCustomer    UserRole = "CUSTOMER"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleContractor, RoleSalesperson, RoleCustomer:
		return true
	}
	return false
}

// User represents a platform user. UserIdentifier is the stable business
// identifier; Auth0UserID is the external identity provider subject.
type User struct {
	BaseModel
	UserIdentifier string   `gorm:"type:varchar(50);not null;uniqueIndex;column:user_identifier"`
	Auth0UserID    string   `gorm:"type:varchar(100);uniqueIndex;column:auth0_user_id"`
	FirstName      string   `gorm:"type:varchar(100);not null;column:first_name"`
	LastName       string   `gorm:"type:varchar(100);not null;column:last_name"`
	Email          string   `gorm:"type:varchar(255);index"`
	Phone          string   `gorm:"type:varchar(50)"`
	Role           UserRole `gorm:"type:varchar(50);not null;index"`
}

// FullName returns the user's full name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	ProjectStatusPlanned    ProjectStatus = "PLANNED"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// IsValid checks if the project status is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusInProgress, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// Project represents a construction project. A project carries at most one
// active contractor and one active salesperson at a time; assigning a new
// one replaces the previous value.
type Project struct {
	BaseModel
	ProjectIdentifier string        `gorm:"type:varchar(50);not null;uniqueIndex;column:project_identifier"`
	ProjectName       string        `gorm:"type:varchar(200);not null;column:project_name"`
	Description       string        `gorm:"type:text"`
	Status            ProjectStatus `gorm:"type:varchar(50);not null;default:'PLANNED';index"`
	ContractorID      *string       `gorm:"type:varchar(50);column:contractor_id"`
	SalespersonID     *string       `gorm:"type:varchar(50);column:salesperson_id"`
	CustomerID        *string       `gorm:"type:varchar(50);column:customer_id"`
	Lots              []Lot         `gorm:"foreignKey:ProjectIdentifier;references:ProjectIdentifier;constraint:OnDelete:CASCADE"`
}

// LotStatus represents the sales status of a lot
type LotStatus string

const (
	LotStatusAvailable LotStatus = "AVAILABLE"
	LotStatusReserved  LotStatus = "RESERVED"
	LotStatusSold      LotStatus = "SOLD"
)

// IsValid checks if the lot status is valid
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusAvailable, LotStatusReserved, LotStatusSold:
		return true
	}
	return false
}

// Lot represents a subdivision of a project with its own assigned users
// (contractors working it, customers who reserved or bought it).
type Lot struct {
	BaseModel
	LotID                  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex;column:lot_id"`
	ProjectIdentifier      string    `gorm:"type:varchar(50);not null;index;column:project_identifier"`
	LotNumber              string    `gorm:"type:varchar(50);not null;column:lot_number"`
	CivicAddress           string    `gorm:"type:varchar(500);column:civic_address"`
	Price                  float64   `gorm:"not null;default:0"`
	DimensionsSquareFeet   float64   `gorm:"column:dimensions_square_feet"`
	DimensionsSquareMeters float64   `gorm:"column:dimensions_square_meters"`
	Status                 LotStatus `gorm:"type:varchar(50);not null;default:'AVAILABLE';index"`
	AssignedUsers          []User    `gorm:"many2many:lot_assigned_users"`
}

// QuoteStatus represents where a quote is in its approval lifecycle
type QuoteStatus string

const (
	QuoteStatusSubmitted        QuoteStatus = "SUBMITTED"
	QuoteStatusOwnerApproved    QuoteStatus = "OWNER_APPROVED"
	QuoteStatusCustomerApproved QuoteStatus = "CUSTOMER_APPROVED"
	QuoteStatusRejected         QuoteStatus = "REJECTED"
)

// IsValid checks if the quote status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusSubmitted, QuoteStatusOwnerApproved,
		QuoteStatusCustomerApproved, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote represents a contractor's priced proposal for work on a lot.
// QuoteNumber is generated at creation and immutable; TotalAmount is always
// recomputed from the line items, never taken from the caller.
type Quote struct {
	BaseModel
	QuoteNumber       string          `gorm:"type:varchar(20);not null;uniqueIndex;column:quote_number"`
	ProjectIdentifier string          `gorm:"type:varchar(50);not null;index;column:project_identifier"`
	LotID             *uuid.UUID      `gorm:"type:varchar(36);index;column:lot_id"`
	ContractorID      string          `gorm:"type:varchar(100);not null;index;column:contractor_id"`
	Category          string          `gorm:"type:varchar(100)"`
	Status            QuoteStatus     `gorm:"type:varchar(50);not null;default:'SUBMITTED';index"`
	RejectionReason   string          `gorm:"type:text;column:rejection_reason"`
	TotalAmount       float64         `gorm:"not null;column:total_amount"`
	LineItems         []QuoteLineItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// QuoteLineItem is one priced row within a quote. LineTotal is derived as
// Quantity * Rate and never supplied by the caller.
type QuoteLineItem struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	QuoteID         uint      `gorm:"not null;index;column:quote_id"`
	LineItemID      uuid.UUID `gorm:"type:varchar(36);not null;column:line_item_id"`
	ItemDescription string    `gorm:"type:varchar(500);not null;column:item_description"`
	Quantity        float64   `gorm:"not null"`
	Rate            float64   `gorm:"not null"`
	LineTotal       float64   `gorm:"not null;column:line_total"`
	DisplayOrder    int       `gorm:"not null;default:0;column:display_order"`
}

// ActivityType classifies a project team change
type ActivityType string

const (
	ActivityContractorAssigned  ActivityType = "CONTRACTOR_ASSIGNED"
	ActivityContractorRemoved   ActivityType = "CONTRACTOR_REMOVED"
	ActivitySalespersonAssigned ActivityType = "SALESPERSON_ASSIGNED"
	ActivitySalespersonRemoved  ActivityType = "SALESPERSON_REMOVED"
)

// ProjectActivityLog is an append-only audit record of a team change on a
// project. UserName and ChangedByName are human-readable snapshots taken at
// write time, not live references.
type ProjectActivityLog struct {
	ID                uint         `gorm:"primaryKey;autoIncrement"`
	ProjectIdentifier string       `gorm:"type:varchar(50);not null;index;column:project_identifier"`
	ActivityType      ActivityType `gorm:"type:varchar(50);not null;column:activity_type"`
	UserIdentifier    string       `gorm:"type:varchar(100);not null;column:user_identifier"`
	UserName          string       `gorm:"type:varchar(200);column:user_name"`
	ChangedBy         string       `gorm:"type:varchar(100);column:changed_by"`
	ChangedByName     string       `gorm:"type:varchar(200);column:changed_by_name"`
	Timestamp         time.Time    `gorm:"not null;index"`
	Description       string       `gorm:"type:varchar(500)"`
}

// NotificationCategory classifies a notification
type NotificationCategory string

const (
	NotificationQuoteApproved NotificationCategory = "QUOTE_APPROVED"
	NotificationQuoteRejected NotificationCategory = "QUOTE_REJECTED"
	NotificationGeneral       NotificationCategory = "GENERAL"
)

// Notification is an in-app message delivered to a single user.
type Notification struct {
	ID              uint                 `gorm:"primaryKey;autoIncrement"`
	NotificationID  uuid.UUID            `gorm:"type:varchar(36);not null;uniqueIndex;column:notification_id"`
	RecipientUserID string               `gorm:"type:varchar(50);not null;index;column:recipient_user_id"`
	Title           string               `gorm:"type:varchar(200);not null"`
	Message         string               `gorm:"type:varchar(1000)"`
	Link            string               `gorm:"type:varchar(500)"`
	Category        NotificationCategory `gorm:"type:varchar(50);not null;default:'GENERAL'"`
	Read            bool                 `gorm:"not null;default:false"`
	CreatedAt       time.Time            `gorm:"not null;index"`
}

// LotDocument records a file stored for a lot. The binary content lives in
// blob storage under BlobPath; this row is the metadata.
type LotDocument struct {
	BaseModel
	DocumentID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex;column:document_id"`
	LotID       uuid.UUID `gorm:"type:varchar(36);not null;index;column:lot_id"`
	FileName    string    `gorm:"type:varchar(255);not null;column:file_name"`
	ContentType string    `gorm:"type:varchar(100);column:content_type"`
	SizeBytes   int64     `gorm:"not null;column:size_bytes"`
	BlobPath    string    `gorm:"type:varchar(500);not null;column:blob_path"`
	UploadedBy  string    `gorm:"type:varchar(100);column:uploaded_by"`
}
