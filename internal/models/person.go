package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a contact. Names are unique per owner and matched exactly.
type Person struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Role      *string   `json:"role,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Name      string    `json:"name"`
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"-"`
}

// PersonRoles holds the four contact relationships shared by deals and properties.
// Each role is an independent reference, so one person may fill several.
type PersonRoles struct {
	SellerID       *uuid.UUID `json:"sellerId,omitempty"`
	SellerAgentID  *uuid.UUID `json:"sellerAgentId,omitempty"`
	BuyerAgentID   *uuid.UUID `json:"buyerAgentId,omitempty"`
	TitleCompanyID *uuid.UUID `json:"titleCompanyId,omitempty"`
}
