package transactionRepo

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

// MongoTransactionRepo implements TransactionRepository using MongoDB.
type MongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo creates a TransactionRepository backed by the given collection.
func NewMongoTransactionRepo(coll *mongo.Collection) TransactionRepository {
	return &MongoTransactionRepo{coll: coll}
}

// FindByGatewayIDs matches on razorpayPaymentId OR razorpayOrderId. Either id may be
// empty; the stored record may not carry a payment id before the first delivery.
func (r *MongoTransactionRepo) FindByGatewayIDs(ctx context.Context, paymentID, orderID string) (*models.Transaction, error) {
	var clauses bson.A
	if paymentID != "" {
		clauses = append(clauses, bson.M{"razorpayPaymentId": paymentID})
	}
	if orderID != "" {
		clauses = append(clauses, bson.M{"razorpayOrderId": orderID})
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	var tx models.Transaction
	err := r.coll.FindOne(ctx, bson.M{"$or": clauses}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch transaction (payment %q, order %q): %w", paymentID, orderID, err)
	}
	return &tx, nil
}

// ApplyGatewayUpdate sets the gateway fields in one conditional update.
func (r *MongoTransactionRepo) ApplyGatewayUpdate(ctx context.Context, id primitive.ObjectID, expected models.TransactionStatus, patch models.TransactionPatch) (bool, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.RazorpayPaymentID != "" {
		set["razorpayPaymentId"] = patch.RazorpayPaymentID
	}
	if patch.PaymentMethod != "" {
		set["paymentMethod"] = patch.PaymentMethod
	}
	if patch.PaymentResponse != nil {
		set["paymentResponse"] = patch.PaymentResponse
	}
	if patch.OrderResponse != nil {
		set["orderResponse"] = patch.OrderResponse
	}

	filter := bson.M{"_id": id, "status": expected}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update transaction %s: %w", id.Hex(), err)
	}
	return result.MatchedCount > 0, nil
}

// RecentGatewayActivity returns the newest gateway-touched transactions first.
func (r *MongoTransactionRepo) RecentGatewayActivity(ctx context.Context, since time.Time, limit int64) ([]models.TransactionActivity, error) {
	filter := bson.M{
		"updatedAt":         bson.M{"$gte": since},
		"razorpayPaymentId": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(activityProjection)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer cursor.Close(ctx)

	activity := []models.TransactionActivity{}
	for cursor.Next(ctx) {
		var a models.TransactionActivity
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		activity = append(activity, a)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return activity, nil
}

var activityProjection = bson.M{
	"_id":               1,
	"razorpayPaymentId": 1,
	"razorpayOrderId":   1,
	"status":            1,
	"amount":            1,
	"paymentMethod":     1,
	"transactionType":   1,
	"bookingType":       1,
	"updatedAt":         1,
}
