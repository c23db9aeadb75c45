package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Parameter Structs ---

// GetTransactionsPageParams is the cursor for newest-first history paging.
// A nil CursorDate means the first page.
type GetTransactionsPageParams struct {
	ClientID   primitive.ObjectID
	Limit      int64
	CursorDate *time.Time
	CursorID   primitive.ObjectID
}
