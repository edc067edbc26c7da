package model

import "time"

// MaxCampFees caps a camp fee in the major currency unit.  It keeps the
// fee convertible to a processor amount in the smallest unit.
const MaxCampFees = 1_000_000

// Camp is a medical camp that participants register for.  The record
// carries a denormalized ParticipantCount which is adjusted by relative
// deltas whenever a registration is created or cancelled.
//
// Fields:
//  ID                     – opaque identifier assigned by the store.
//  CampName               – display name of the camp.
//  Image                  – URL of the cover image.
//  CampFees               – registration fee in the major currency unit.
//  DateTime               – free-form schedule text (e.g. "2026-11-02 09:00").
//  Location               – venue description.
//  HealthcareProfessional – lead professional attending the camp.
//  Description            – long description shown on the detail page.
//  OrganizerEmail         – email of the organizer who created the camp.
//  ParticipantCount       – number of live registrations (never negative).
//  CreatedAt              – creation timestamp.
type Camp struct {
    ID                     string    `json:"_id"`
    CampName               string    `json:"campName"`
    Image                  string    `json:"image,omitempty"`
    CampFees               float64   `json:"campFees"`
    DateTime               string    `json:"dateTime,omitempty"`
    Location               string    `json:"location,omitempty"`
    HealthcareProfessional string    `json:"healthcareProfessional,omitempty"`
    Description            string    `json:"description,omitempty"`
    OrganizerEmail         string    `json:"organizerEmail,omitempty"`
    ParticipantCount       int       `json:"participantCount"`
    CreatedAt              time.Time `json:"createdAt"`
}

// CampPatch overwrites the fields that are non-nil.  ParticipantCount is
// included so that an organizer can seed the counter externally.
type CampPatch struct {
    CampName               *string  `json:"campName,omitempty" validate:"omitempty,min=1,max=200"`
    Image                  *string  `json:"image,omitempty" validate:"omitempty,url"`
    CampFees               *float64 `json:"campFees,omitempty" validate:"omitempty,gte=0,lte=1000000"`
    DateTime               *string  `json:"dateTime,omitempty"`
    Location               *string  `json:"location,omitempty"`
    HealthcareProfessional *string  `json:"healthcareProfessional,omitempty"`
    Description            *string  `json:"description,omitempty"`
    ParticipantCount       *int     `json:"participantCount,omitempty" validate:"omitempty,gte=0"`
}

// Empty reports whether the patch would change nothing.
func (p CampPatch) Empty() bool {
    return p.CampName == nil && p.Image == nil && p.CampFees == nil && p.DateTime == nil &&
        p.Location == nil && p.HealthcareProfessional == nil && p.Description == nil &&
        p.ParticipantCount == nil
}

// Apply copies the patched fields onto c.
func (p CampPatch) Apply(c *Camp) {
    if p.CampName != nil {
        c.CampName = *p.CampName
    }
    if p.Image != nil {
        c.Image = *p.Image
    }
    if p.CampFees != nil {
        c.CampFees = *p.CampFees
    }
    if p.DateTime != nil {
        c.DateTime = *p.DateTime
    }
    if p.Location != nil {
        c.Location = *p.Location
    }
    if p.HealthcareProfessional != nil {
        c.HealthcareProfessional = *p.HealthcareProfessional
    }
    if p.Description != nil {
        c.Description = *p.Description
    }
    if p.ParticipantCount != nil {
        c.ParticipantCount = *p.ParticipantCount
    }
}
