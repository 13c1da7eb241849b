package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGender_Valid(t *testing.T) {
	assert.True(t, GenderMale.Valid())
	assert.True(t, GenderFemale.Valid())
	assert.False(t, Gender("MALE").Valid())
	assert.False(t, Gender("").Valid())
	assert.False(t, Gender("other").Valid())
}

func TestUser_Apply(t *testing.T) {
	id := primitive.NewObjectID()
	u := User{ID: id, Username: "jdoe", FirstName: "John", Gender: GenderMale}

	changed := u.Apply(UserChanges{
		FieldFirstName: "Jane",
		FieldGender:    GenderFemale,
		FieldID:        primitive.NewObjectID().Hex(),
		"unknown":      "ignored",
	})

	assert.True(t, changed)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, GenderFemale, u.Gender)
	assert.Equal(t, "jdoe", u.Username)
}

func TestUser_Apply_SameValuesIsNoChange(t *testing.T) {
	u := User{Username: "jdoe", Gender: GenderMale}

	assert.False(t, u.Apply(UserChanges{FieldUsername: "jdoe", FieldGender: "male"}))
	assert.False(t, u.Apply(UserChanges{}))
}
