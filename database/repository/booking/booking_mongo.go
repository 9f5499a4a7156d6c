package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyspace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository over one booking collection.
type MongoBookingRepo struct {
	kind models.BookingType
	coll *mongo.Collection
}

// NewCabinBookingRepo serves reading-room cabin bookings.
func NewCabinBookingRepo(coll *mongo.Collection) BookingRepository {
	return &MongoBookingRepo{kind: models.BookingTypeCabin, coll: coll}
}

// NewHostelBookingRepo serves hostel bed bookings.
func NewHostelBookingRepo(coll *mongo.Collection) BookingRepository {
	return &MongoBookingRepo{kind: models.BookingTypeHostel, coll: coll}
}

func (r *MongoBookingRepo) Kind() models.BookingType {
	return r.kind
}

// GetByID fetches only the fields reconciliation works with.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	opts := options.FindOne().SetProjection(bookingProjection)

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s booking %s: %w", r.kind, id.Hex(), err)
	}
	return &booking, nil
}

// ApplyPatch turns the patch into one UpdateOne so no partial state is ever
// visible. A renewal entry makes the update conditional on its transaction id
// not being present in renewalHistory yet.
func (r *MongoBookingRepo) ApplyPatch(ctx context.Context, id primitive.ObjectID, patch models.BookingPatch) (bool, error) {
	filter := bson.M{"_id": id}
	set := bson.M{"updatedAt": time.Now()}
	push := bson.M{}

	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.PaymentStatus != nil {
		set["paymentStatus"] = *patch.PaymentStatus
	}
	if patch.PaymentDate != nil {
		set["paymentDate"] = *patch.PaymentDate
	}
	if patch.EndDate != nil {
		set["endDate"] = *patch.EndDate
	}
	if patch.Months != nil {
		set["months"] = *patch.Months
	}
	if patch.TotalPrice != nil {
		set["totalPrice"] = *patch.TotalPrice
	}
	if patch.RenewalEntry != nil {
		push["renewalHistory"] = *patch.RenewalEntry
		filter["renewalHistory.transactionId"] = bson.M{"$ne": patch.RenewalEntry.TransactionID}
	}
	if patch.CouponEntry != nil {
		push["couponsHistory"] = *patch.CouponEntry
	}

	update := bson.M{"$set": set}
	if len(push) > 0 {
		update["$push"] = push
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update %s booking %s: %w", r.kind, id.Hex(), err)
	}
	return result.MatchedCount > 0, nil
}

var bookingProjection = bson.M{
	"_id":            1,
	"userId":         1,
	"status":         1,
	"paymentStatus":  1,
	"paymentDate":    1,
	"startDate":      1,
	"bookingDate":    1,
	"endDate":        1,
	"months":         1,
	"totalPrice":     1,
	"renewalHistory": 1,
	"couponsHistory": 1,
	"updatedAt":      1,
}
