// Package identifier converts between the external string form of a user ID
// and the store's ObjectID.
package identifier

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for strings that are not 24 hexadecimal characters.
var ErrInvalidID = errors.New("invalid user ID format")

// Decode parses a 24 character hex string into an ObjectID.
func Decode(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// Encode returns the lower-case hex form of id.
func Encode(id primitive.ObjectID) string {
	return id.Hex()
}
