package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodStatus is the lifecycle state of a FoodItem.
type FoodStatus string

const (
	FoodAvailable FoodStatus = "Available"
	FoodDonated   FoodStatus = "Donated"
	FoodDelivered FoodStatus = "Delivered"
	FoodExpired   FoodStatus = "Expired"
)

// Valid reports whether s is one of the known food statuses.
func (s FoodStatus) Valid() bool {
	switch s {
	case FoodAvailable, FoodDonated, FoodDelivered, FoodExpired:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a FoodRequest.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the known request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected:
		return true
	}
	return false
}

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is assignable.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// FoodItem is a single listed surplus-food donation.
type FoodItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FoodName        string             `bson:"food_name" json:"food_name"`
	FoodImage       string             `bson:"food_image,omitempty" json:"food_image,omitempty"`
	FoodQuantity    int                `bson:"food_quantity" json:"food_quantity"`
	ExpireDate      time.Time          `bson:"expire_date" json:"expire_date"`
	PickupLocation  string             `bson:"pickup_location" json:"pickup_location"`
	AdditionalNotes string             `bson:"additional_notes,omitempty" json:"additional_notes,omitempty"`
	DonatorName     string             `bson:"donators_name,omitempty" json:"donators_name,omitempty"`
	DonatorEmail    string             `bson:"donators_email" json:"donators_email"`
	DonatorImage    string             `bson:"donators_image,omitempty" json:"donators_image,omitempty"`
	FoodStatus      FoodStatus         `bson:"food_status" json:"food_status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// FoodUpdate carries a partial update; nil fields are left untouched.
type FoodUpdate struct {
	FoodName        *string     `json:"food_name"`
	FoodImage       *string     `json:"food_image"`
	FoodQuantity    *int        `json:"food_quantity"`
	ExpireDate      *time.Time  `json:"expire_date"`
	PickupLocation  *string     `json:"pickup_location"`
	AdditionalNotes *string     `json:"additional_notes"`
	FoodStatus      *FoodStatus `json:"food_status"`
}

// Empty reports whether the update sets no field.
func (u FoodUpdate) Empty() bool {
	return u.FoodName == nil && u.FoodImage == nil && u.FoodQuantity == nil &&
		u.ExpireDate == nil && u.PickupLocation == nil && u.AdditionalNotes == nil &&
		u.FoodStatus == nil
}

// Apply copies the set fields of u onto item.
func (u FoodUpdate) Apply(item *FoodItem) {
	if u.FoodName != nil {
		item.FoodName = *u.FoodName
	}
	if u.FoodImage != nil {
		item.FoodImage = *u.FoodImage
	}
	if u.FoodQuantity != nil {
		item.FoodQuantity = *u.FoodQuantity
	}
	if u.ExpireDate != nil {
		item.ExpireDate = *u.ExpireDate
	}
	if u.PickupLocation != nil {
		item.PickupLocation = *u.PickupLocation
	}
	if u.AdditionalNotes != nil {
		item.AdditionalNotes = *u.AdditionalNotes
	}
	if u.FoodStatus != nil {
		item.FoodStatus = *u.FoodStatus
	}
}

// FoodRequest is a recipient's request to claim a FoodItem. FoodID is a
// plain string reference and may point at an item that no longer exists.
type FoodRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FoodID         string             `bson:"food_id" json:"food_id"`
	FoodName       string             `bson:"food_name,omitempty" json:"food_name,omitempty"`
	RequesterName  string             `bson:"requester_name,omitempty" json:"requester_name,omitempty"`
	RequesterEmail string             `bson:"requester_email" json:"requester_email"`
	RequesterImage string             `bson:"requester_image,omitempty" json:"requester_image,omitempty"`
	PickupLocation string             `bson:"pickup_location,omitempty" json:"pickup_location,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         RequestStatus      `bson:"status" json:"status"`
	RequestedAt    time.Time          `bson:"requested_at" json:"requested_at"`
}

// User is a platform account, created on first sign-in.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email" json:"email"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
