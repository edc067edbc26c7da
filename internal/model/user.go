package model

import "time"

// Roles carried in issued access tokens.
const (
    RoleParticipant = "participant"
    RoleOrganizer   = "organizer"
)

// User is an account known to the backend.  Authentication happens with an
// external identity provider; UID is that provider's subject and Email is
// the lookup key used everywhere else.
//
// Fields:
//  ID             – opaque identifier assigned by the store.
//  UID            – external identity provider subject.
//  Name           – display name.
//  Email          – unique, lower-cased email address.
//  ProfilePicture – avatar URL.
//  Role           – participant or organizer.
//  CreatedAt      – creation timestamp.
type User struct {
    ID             string    `json:"_id"`
    UID            string    `json:"uid"`
    Name           string    `json:"name"`
    Email          string    `json:"email"`
    ProfilePicture string    `json:"profilePicture,omitempty"`
    Role           string    `json:"role"`
    CreatedAt      time.Time `json:"createdAt"`
}
