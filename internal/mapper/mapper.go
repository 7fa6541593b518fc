package mapper

import (
	"time"

	"github.com/lcdc-construction/projects-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToQuoteDTO converts a Quote and its line items to a QuoteDTO
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	lineItems := make([]domain.QuoteLineItemDTO, len(quote.LineItems))
	for i, item := range quote.LineItems {
		lineItems[i] = domain.QuoteLineItemDTO{
			LineItemID:      item.LineItemID,
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			LineTotal:       item.LineTotal,
			DisplayOrder:    item.DisplayOrder,
		}
	}

	return domain.QuoteDTO{
		QuoteNumber:       quote.QuoteNumber,
		ProjectIdentifier: quote.ProjectIdentifier,
		LotIdentifier:     quote.LotID,
		ContractorID:      quote.ContractorID,
		Category:          quote.Category,
		Status:            quote.Status,
		RejectionReason:   quote.RejectionReason,
		TotalAmount:       quote.TotalAmount,
		LineItems:         lineItems,
		CreatedAt:         formatTime(quote.CreatedAt),
		UpdatedAt:         formatTime(quote.UpdatedAt),
	}
}

// ToQuoteDTOs converts a slice of quotes
func ToQuoteDTOs(quotes []domain.Quote) []domain.QuoteDTO {
	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = ToQuoteDTO(&quotes[i])
	}
	return dtos
}

// ToProjectDTO converts a Project to a ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ProjectIdentifier: project.ProjectIdentifier,
		ProjectName:       project.ProjectName,
		Description:       project.Description,
		Status:            project.Status,
		ContractorID:      project.ContractorID,
		SalespersonID:     project.SalespersonID,
		CustomerID:        project.CustomerID,
		CreatedAt:         formatTime(project.CreatedAt),
		UpdatedAt:         formatTime(project.UpdatedAt),
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []domain.Project) []domain.ProjectDTO {
	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = ToProjectDTO(&projects[i])
	}
	return dtos
}

// ToActivityLogDTO converts a ProjectActivityLog entry to its DTO
func ToActivityLogDTO(entry *domain.ProjectActivityLog) domain.ActivityLogDTO {
	return domain.ActivityLogDTO{
		ProjectIdentifier: entry.ProjectIdentifier,
		ActivityType:      entry.ActivityType,
		UserIdentifier:    entry.UserIdentifier,
		UserName:          entry.UserName,
		ChangedBy:         entry.ChangedBy,
		ChangedByName:     entry.ChangedByName,
		Timestamp:         formatTime(entry.Timestamp),
		Description:       entry.Description,
	}
}

// ToActivityLogDTOs converts a slice of activity log entries
func ToActivityLogDTOs(entries []domain.ProjectActivityLog) []domain.ActivityLogDTO {
	dtos := make([]domain.ActivityLogDTO, len(entries))
	for i := range entries {
		dtos[i] = ToActivityLogDTO(&entries[i])
	}
	return dtos
}

// ToUserDTO converts a User to a UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		UserIdentifier: user.UserIdentifier,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		Email:          user.Email,
		Role:           user.Role,
	}
}

// ToLotDTO converts a Lot and its assigned users to a LotDTO
func ToLotDTO(lot *domain.Lot) domain.LotDTO {
	assigned := make([]domain.UserDTO, len(lot.AssignedUsers))
	for i := range lot.AssignedUsers {
		assigned[i] = ToUserDTO(&lot.AssignedUsers[i])
	}

	return domain.LotDTO{
		LotID:                  lot.LotID,
		ProjectIdentifier:      lot.ProjectIdentifier,
		LotNumber:              lot.LotNumber,
		CivicAddress:           lot.CivicAddress,
		Price:                  lot.Price,
		DimensionsSquareFeet:   lot.DimensionsSquareFeet,
		DimensionsSquareMeters: lot.DimensionsSquareMeters,
		Status:                 lot.Status,
		AssignedUsers:          assigned,
		CreatedAt:              formatTime(lot.CreatedAt),
		UpdatedAt:              formatTime(lot.UpdatedAt),
	}
}

// ToLotDTOs converts a slice of lots
func ToLotDTOs(lots []domain.Lot) []domain.LotDTO {
	dtos := make([]domain.LotDTO, len(lots))
	for i := range lots {
		dtos[i] = ToLotDTO(&lots[i])
	}
	return dtos
}

// ToNotificationDTO converts a Notification to its DTO
func ToNotificationDTO(n *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		NotificationID:  n.NotificationID,
		RecipientUserID: n.RecipientUserID,
		Title:           n.Title,
		Message:         n.Message,
		Link:            n.Link,
		Category:        n.Category,
		Read:            n.Read,
		CreatedAt:       formatTime(n.CreatedAt),
	}
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos
}

// ToLotDocumentDTO converts a LotDocument to its DTO
func ToLotDocumentDTO(doc *domain.LotDocument) domain.LotDocumentDTO {
	return domain.LotDocumentDTO{
		DocumentID:  doc.DocumentID,
		LotID:       doc.LotID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		UploadedBy:  doc.UploadedBy,
		CreatedAt:   formatTime(doc.CreatedAt),
	}
}

// ToLotDocumentDTOs converts a slice of lot documents
func ToLotDocumentDTOs(docs []domain.LotDocument) []domain.LotDocumentDTO {
	dtos := make([]domain.LotDocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = ToLotDocumentDTO(&docs[i])
	}
	return dtos
}
