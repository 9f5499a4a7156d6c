package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingCompleted BookingStatus = "completed"
	BookingFailed    BookingStatus = "failed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is the subset of a cabin or hostel booking document that payment
// reconciliation reads and writes. Other fields stay untouched in the store.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	UserID        primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Status        BookingStatus      `bson:"status" json:"status"`
	PaymentStatus BookingStatus      `bson:"paymentStatus" json:"paymentStatus"` // initial payment only
	PaymentDate   *time.Time         `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
	StartDate     *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`     // hostel bookings
	BookingDate   *time.Time         `bson:"bookingDate,omitempty" json:"bookingDate,omitempty"` // cabin bookings
	EndDate       *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Months        int                `bson:"months,omitempty" json:"months,omitempty"`
	TotalPrice    int64              `bson:"totalPrice" json:"totalPrice"`

	RenewalHistory []RenewalHistoryEntry `bson:"renewalHistory,omitempty" json:"renewalHistory,omitempty"` // append-only
	CouponsHistory []CouponHistoryEntry  `bson:"couponsHistory,omitempty" json:"couponsHistory,omitempty"` // append-only

	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// HasRenewal reports whether a renewal from the given transaction was already recorded.
func (b *Booking) HasRenewal(transactionID primitive.ObjectID) bool {
	for _, entry := range b.RenewalHistory {
		if entry.TransactionID == transactionID {
			return true
		}
	}
	return false
}

type RenewalHistoryEntry struct {
	PreviousEndDate  *time.Time         `bson:"previousEndDate,omitempty" json:"previousEndDate,omitempty"`
	NewEndDate       *time.Time         `bson:"newEndDate,omitempty" json:"newEndDate,omitempty"`
	AdditionalMonths int                `bson:"additionalMonths" json:"additionalMonths"`
	AdditionalAmount int64              `bson:"additionalAmount" json:"additionalAmount"`
	PreviousAmount   int64              `bson:"previousAmount" json:"previousAmount"`
	RenewedAt        time.Time          `bson:"renewedAt" json:"renewedAt"`
	RenewedBy        primitive.ObjectID `bson:"renewedBy,omitempty" json:"renewedBy,omitempty"`
	TransactionID    primitive.ObjectID `bson:"transactionId" json:"transactionId"`
}

type CouponHistoryEntry struct {
	CouponID        primitive.ObjectID `bson:"couponId,omitempty" json:"couponId,omitempty"`
	CouponCode      string             `bson:"couponCode" json:"couponCode"`
	DiscountAmount  int64              `bson:"discountAmount" json:"discountAmount"`
	CouponType      string             `bson:"couponType,omitempty" json:"couponType,omitempty"`
	CouponValue     float64            `bson:"couponValue,omitempty" json:"couponValue,omitempty"`
	AppliedAt       time.Time          `bson:"appliedAt" json:"appliedAt"`
	TransactionType TransactionType    `bson:"transactionType" json:"transactionType"`
	TransactionID   primitive.ObjectID `bson:"transactionId" json:"transactionId"`
}

// BookingPatch is one atomic write of the fields payment reconciliation owns.
// Nil fields are left untouched. When RenewalEntry is set the write only
// applies if no renewal entry with the same transaction id exists yet.
type BookingPatch struct {
	Status        *BookingStatus
	PaymentStatus *BookingStatus
	PaymentDate   *time.Time
	EndDate       *time.Time
	Months        *int
	TotalPrice    *int64
	RenewalEntry  *RenewalHistoryEntry
	CouponEntry   *CouponHistoryEntry
}

// IsEmpty reports whether the patch would write nothing.
func (p BookingPatch) IsEmpty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.PaymentDate == nil &&
		p.EndDate == nil && p.Months == nil && p.TotalPrice == nil &&
		p.RenewalEntry == nil && p.CouponEntry == nil
}
