package subject

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subject is the canonical name registry entry. NameLower carries the
// case-folded form backing the unique index, so "Maths" and "maths" can
// never become two documents.
type Subject struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameLower string             `bson:"name_lower" json:"-"`
}

// Normalize trims a raw subject name and returns its canonical lookup key.
func Normalize(name string) (clean, lower string) {
	clean = strings.TrimSpace(name)
	return clean, strings.ToLower(clean)
}
