// File: models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type TransactionType string

const (
	TransactionTypeBooking      TransactionType = "booking"
	TransactionTypeRenewal      TransactionType = "renewal"
	TransactionTypeCancellation TransactionType = "cancellation"
	TransactionTypeRefund       TransactionType = "refund"
)

type BookingType string

const (
	BookingTypeCabin  BookingType = "cabin"
	BookingTypeHostel BookingType = "hostel"
)

// Transaction is one payment attempt against a booking.
type Transaction struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	BookingID       primitive.ObjectID `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	BookingType     BookingType        `bson:"bookingType" json:"bookingType"`
	TransactionType TransactionType    `bson:"transactionType" json:"transactionType"`
	Amount          int64              `bson:"amount" json:"amount"` // integer currency units
	Status          TransactionStatus  `bson:"status" json:"status"`

	RazorpayOrderID   string `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	PaymentMethod     string `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`

	PaymentResponse map[string]interface{} `bson:"paymentResponse,omitempty" json:"paymentResponse,omitempty"` // raw gateway payment entity
	OrderResponse   map[string]interface{} `bson:"orderResponse,omitempty" json:"orderResponse,omitempty"`     // raw gateway order entity

	AppliedCoupon *AppliedCoupon `bson:"appliedCoupon,omitempty" json:"appliedCoupon,omitempty"`

	// Renewal only.
	AdditionalMonths int        `bson:"additionalMonths,omitempty" json:"additionalMonths,omitempty"`
	PreviousEndDate  *time.Time `bson:"previousEndDate,omitempty" json:"previousEndDate,omitempty"`
	NewEndDate       *time.Time `bson:"newEndDate,omitempty" json:"newEndDate,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type AppliedCoupon struct {
	CouponID       primitive.ObjectID `bson:"couponId,omitempty" json:"couponId,omitempty"`
	CouponCode     string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	DiscountAmount int64              `bson:"discountAmount,omitempty" json:"discountAmount,omitempty"`
	CouponType     string             `bson:"couponType,omitempty" json:"couponType,omitempty"` // "percentage" or "fixed"
	CouponValue    float64            `bson:"couponValue,omitempty" json:"couponValue,omitempty"`
	AppliedAt      *time.Time         `bson:"appliedAt,omitempty" json:"appliedAt,omitempty"`
}

// TransactionPatch carries the gateway-reported fields written back onto a transaction.
// A nil Status leaves the stored status untouched.
type TransactionPatch struct {
	Status            *TransactionStatus
	RazorpayPaymentID string
	PaymentMethod     string
	PaymentResponse   map[string]interface{}
	OrderResponse     map[string]interface{}
}

// TransactionActivity is the projection served by the webhook audit listing.
type TransactionActivity struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	RazorpayPaymentID string             `bson:"razorpayPaymentId" json:"razorpayPaymentId"`
	RazorpayOrderID   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	Status            TransactionStatus  `bson:"status" json:"status"`
	Amount            int64              `bson:"amount" json:"amount"`
	PaymentMethod     string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	TransactionType   TransactionType    `bson:"transactionType" json:"transactionType"`
	BookingType       BookingType        `bson:"bookingType" json:"bookingType"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
