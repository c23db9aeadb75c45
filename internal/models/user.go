package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemUser represents an operator for actions performed by the system itself.
var SystemUser = &User{
	UserId: primitive.NilObjectID,
	Name:   "System",
}

// User is the verified staff identity attached to ledger mutations for audit
// attribution. Credential verification happens outside the core.
type User struct {
	UserId primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name   string             `json:"name" bson:"name"`
	Email  string             `json:"email,omitempty" bson:"email,omitempty"`
}

type contextKey string

// OperatorKey is the context key under which the auth middleware stores the
// verified operator.
const OperatorKey contextKey = "operator"

// OperatorFromContext returns the verified operator set by the auth
// middleware, or nil when the request was not authenticated.
func OperatorFromContext(ctx context.Context) *User {
	operator, _ := ctx.Value(OperatorKey).(*User)
	return operator
}
