package dto

type SaveContentRequest struct {
	Section string                 `json:"section" validate:"required"`
	Data    map[string]interface{} `json:"data" validate:"required"`
}
