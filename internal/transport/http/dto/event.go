package dto

import "drift_inc/internal/domain/models"

type AttachmentInput struct {
	URL  string `json:"url" validate:"required"`
	Kind string `json:"kind" validate:"required,oneof=image video"`
}

type CreateEventRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description,omitempty"`
	StartDate   string            `json:"startDate" validate:"required"`
	EndDate     string            `json:"endDate" validate:"required"`
	Attachments []AttachmentInput `json:"attachments,omitempty"`
}

func (r CreateEventRequest) ToAttachments() models.Attachments {
	if len(r.Attachments) == 0 {
		return nil
	}
	attachments := make(models.Attachments, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		attachments = append(attachments, models.Attachment{
			URL:  a.URL,
			Kind: models.MediaKind(a.Kind),
		})
	}
	return attachments
}
