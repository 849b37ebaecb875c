package dto

import "github.com/BenjiKandl/apertif/internal/domain"

// OptionsResponse lists the fixed choices offered by the forms
type OptionsResponse struct {
	Diets         []domain.DietTag `json:"diets"`
	Bottles       []domain.Bottle  `json:"bottles"`
	Themes        []domain.Theme   `json:"themes"`
	DefaultBottle domain.Bottle    `json:"defaultBottle"`
	MaxSpiceLevel int              `json:"maxSpiceLevel"`
}

// NewOptionsResponse returns the option sets
func NewOptionsResponse() *OptionsResponse {
	return &OptionsResponse{
		Diets:         domain.DietOptions,
		Bottles:       domain.BottleOptions,
		Themes:        domain.ThemeOptions,
		DefaultBottle: domain.DefaultBottle,
		MaxSpiceLevel: domain.MaxSpiceLevel,
	}
}
