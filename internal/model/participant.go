package model

import "time"

// Payment states of a registration.
const (
    PaymentUnpaid = "Unpaid"
    PaymentPaid   = "Paid"
)

// Confirmation states of a registration.
const (
    ConfirmationPending   = "Pending"
    ConfirmationConfirmed = "Confirmed"
    ConfirmationCancelled = "Cancelled"
)

// Participant records one person's registration for a camp.  CampID is a
// weak reference: the camp may be deleted while the registration still
// exists.  The camp name, fee and location are copied at registration time
// so listings do not need a join.
//
// Fields:
//  ID                 – opaque identifier assigned by the store.
//  CampID             – camp the registration belongs to.
//  CampName           – camp name at the time of registration.
//  CampFees           – camp fee at the time of registration.
//  Location           – camp location at the time of registration.
//  HealthcareProfessional – camp lead at the time of registration.
//  ParticipantName    – name of the participant.
//  ParticipantEmail   – contact and lookup key for "my registrations".
//  Age, Phone, Gender – participant details.
//  EmergencyContact   – phone number to call in an emergency.
//  PaymentStatus      – Unpaid or Paid.
//  ConfirmationStatus – Pending, Confirmed or Cancelled.
//  TransactionID      – processor reference once paid.
//  CreatedAt          – registration timestamp.
type Participant struct {
    ID                     string    `json:"_id"`
    CampID                 string    `json:"campId"`
    CampName               string    `json:"campName,omitempty"`
    CampFees               float64   `json:"campFees"`
    Location               string    `json:"location,omitempty"`
    HealthcareProfessional string    `json:"healthcareProfessional,omitempty"`
    ParticipantName        string    `json:"participantName"`
    ParticipantEmail       string    `json:"participantEmail"`
    Age                    int       `json:"age,omitempty"`
    Phone                  string    `json:"phone,omitempty"`
    Gender                 string    `json:"gender,omitempty"`
    EmergencyContact       string    `json:"emergencyContact,omitempty"`
    PaymentStatus          string    `json:"paymentStatus"`
    ConfirmationStatus     string    `json:"confirmationStatus"`
    TransactionID          string    `json:"transactionId,omitempty"`
    CreatedAt              time.Time `json:"createdAt"`
}

// StatusPatch is a partial update of a registration's lifecycle fields.
// Cancelled is not patchable: cancelling deletes the registration.
type StatusPatch struct {
    PaymentStatus      *string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=Unpaid Paid"`
    ConfirmationStatus *string `json:"confirmationStatus,omitempty" validate:"omitempty,oneof=Pending Confirmed"`
    TransactionID      *string `json:"transactionId,omitempty" validate:"omitempty,max=255"`
}

// Empty reports whether the patch would change nothing.
func (p StatusPatch) Empty() bool {
    return p.PaymentStatus == nil && p.ConfirmationStatus == nil && p.TransactionID == nil
}

// Apply copies the patched fields onto r.
func (p StatusPatch) Apply(r *Participant) {
    if p.PaymentStatus != nil {
        r.PaymentStatus = *p.PaymentStatus
    }
    if p.ConfirmationStatus != nil {
        r.ConfirmationStatus = *p.ConfirmationStatus
    }
    if p.TransactionID != nil {
        r.TransactionID = *p.TransactionID
    }
}

// ValidPaymentStatus reports whether s is a known payment state.
func ValidPaymentStatus(s string) bool { return s == PaymentUnpaid || s == PaymentPaid }

// ValidConfirmationStatus reports whether s is a known confirmation state.
func ValidConfirmationStatus(s string) bool {
    switch s {
    case ConfirmationPending, ConfirmationConfirmed, ConfirmationCancelled:
        return true
    }
    return false
}
