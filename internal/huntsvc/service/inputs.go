package service

import "github.com/shopspring/decimal"

// Request contracts. Handlers decode into these and run the validate tags
// before any service method sees them.

type LoginInput struct {
	AdminKey string `json:"adminKey" validate:"required"`
}

type CreateHuntInput struct {
	Title        string           `json:"title" validate:"required,max=200"`
	Casino       string           `json:"casino" validate:"required,max=200"`
	Currency     string           `json:"currency" validate:"omitempty,oneof=USD CAD AUD"`
	StartBalance *decimal.Decimal `json:"startBalance" validate:"required"`
	Notes        *string          `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateHuntInput is a partial update; nil fields are left unchanged.
type UpdateHuntInput struct {
	Title        *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Casino       *string          `json:"casino" validate:"omitempty,min=1,max=200"`
	Currency     *string          `json:"currency" validate:"omitempty,oneof=USD CAD AUD"`
	StartBalance *decimal.Decimal `json:"startBalance"`
	EndBalance   *decimal.Decimal `json:"endBalance"`
	Status       *string          `json:"status" validate:"omitempty,oneof=collecting playing completed"`
	Notes        *string          `json:"notes" validate:"omitempty,max=2000"`
	IsPublic     *bool            `json:"isPublic"`
	IsPlaying    *bool            `json:"isPlaying"`
}

type CreateBonusInput struct {
	HuntID    string           `json:"huntId" validate:"required,uuid"`
	SlotName  string           `json:"slotName" validate:"required,max=200"`
	Provider  string           `json:"provider" validate:"required,max=200"`
	ImageURL  *string          `json:"imageUrl" validate:"omitempty,max=2000"`
	BetAmount *decimal.Decimal `json:"betAmount" validate:"required"`
	Order     *int             `json:"order" validate:"omitempty,min=0"`
}

// UpdateBonusInput is a partial update; win amounts only change through payouts.
type UpdateBonusInput struct {
	SlotName  *string          `json:"slotName" validate:"omitempty,min=1,max=200"`
	Provider  *string          `json:"provider" validate:"omitempty,min=1,max=200"`
	ImageURL  *string          `json:"imageUrl" validate:"omitempty,max=2000"`
	BetAmount *decimal.Decimal `json:"betAmount"`
	Order     *int             `json:"order" validate:"omitempty,min=0"`
}

type PayoutInput struct {
	WinAmount *decimal.Decimal `json:"winAmount" validate:"required"`
}

type SlotInput struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Provider string  `json:"provider" validate:"required,max=200"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,max=2000"`
	Category *string `json:"category" validate:"omitempty,max=100"`
}

type ImportSlotsInput struct {
	Slots []SlotInput `json:"slots" validate:"required,min=1,dive"`
}

type SetMetaInput struct {
	Value string `json:"value" validate:"max=4000"`
}
