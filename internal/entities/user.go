package entities

import "go.mongodb.org/mongo-driver/bson/primitive"

// Gender is the closed set of values accepted for a user's gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Stored field names. They double as JSON keys.
const (
	FieldID          = "_id"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldDateOfBirth = "date_of_birth"
	FieldAddress     = "address"
	FieldGender      = "gender"
	FieldPhoneNumber = "phone_number"
)

// User represents a user document in the store
type User struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"password"` // stored as submitted
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastName    string             `bson:"last_name" json:"last_name"`
	DateOfBirth string             `bson:"date_of_birth" json:"date_of_birth"`
	Address     string             `bson:"address" json:"address"`
	Gender      Gender             `bson:"gender" json:"gender"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
}

// UserChanges holds the fields of a partial update keyed by stored field name.
type UserChanges map[string]interface{}

// Apply copies changes onto u and reports whether any stored value changed.
// Unknown keys and the identifier are ignored.
func (u *User) Apply(changes UserChanges) bool {
	changed := false
	set := func(dst *string, v interface{}) {
		s, ok := stringOf(v)
		if ok && *dst != s {
			*dst = s
			changed = true
		}
	}

	for key, value := range changes {
		switch key {
		case FieldUsername:
			set(&u.Username, value)
		case FieldEmail:
			set(&u.Email, value)
		case FieldPassword:
			set(&u.Password, value)
		case FieldFirstName:
			set(&u.FirstName, value)
		case FieldLastName:
			set(&u.LastName, value)
		case FieldDateOfBirth:
			set(&u.DateOfBirth, value)
		case FieldAddress:
			set(&u.Address, value)
		case FieldPhoneNumber:
			set(&u.PhoneNumber, value)
		case FieldGender:
			g := string(u.Gender)
			set(&g, value)
			u.Gender = Gender(g)
		}
	}
	return changed
}

func stringOf(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case Gender:
		return string(s), true
	}
	return "", false
}
