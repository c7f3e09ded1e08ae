package models

type Slot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Provider string  `json:"provider"`
	ImageURL *string `json:"imageUrl"`
	Category *string `json:"category"`
}
