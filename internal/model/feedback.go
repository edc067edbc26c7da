package model

import "time"

// Feedback is a participant's rating of a camp they attended.
type Feedback struct {
    ID               string    `json:"_id"`
    CampID           string    `json:"campId"`
    ParticipantName  string    `json:"participantName,omitempty"`
    ParticipantEmail string    `json:"participantEmail"`
    Rating           int       `json:"rating"`
    Comment          string    `json:"comment,omitempty"`
    CreatedAt        time.Time `json:"createdAt"`
}
