package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID string    `json:"product_id" db:"product_id"`
	BuyerID   int64     `json:"buyer_id" db:"buyer_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func IsValidRating(r int) bool {
	return r >= 1 && r <= 5
}
