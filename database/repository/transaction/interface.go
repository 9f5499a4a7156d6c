package transactionRepo

import (
	"context"
	"time"

	"studyspace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionRepository defines the transaction data access used by payment reconciliation.
type TransactionRepository interface {
	// FindByGatewayIDs returns the transaction matching either gateway id, or nil when none does.
	FindByGatewayIDs(ctx context.Context, paymentID, orderID string) (*models.Transaction, error)
	// ApplyGatewayUpdate writes the patch if the stored status still equals expected.
	// It reports whether a document was matched.
	ApplyGatewayUpdate(ctx context.Context, id primitive.ObjectID, expected models.TransactionStatus, patch models.TransactionPatch) (bool, error)
	// RecentGatewayActivity lists transactions carrying a gateway payment id updated since the given time.
	RecentGatewayActivity(ctx context.Context, since time.Time, limit int64) ([]models.TransactionActivity, error)
	// EnsureIndexes creates the lookup indexes.
	EnsureIndexes(ctx context.Context) error
}
