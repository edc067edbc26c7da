// Package queue defines message payloads exchanged over the message broker
// together with the publisher and consumer that move them.
package queue

// Queue names.  All queues are durable and use the default exchange.
const (
    ParticipantRegisteredQueue = "participant.registered"
    ParticipantCancelledQueue  = "participant.cancelled"
    PaymentSucceededQueue      = "payment.succeeded"
)

// ParticipantRegisteredEvent is published after a registration is stored.
// Downstream consumers (mailers, analytics) get everything they need
// without reading the primary store.
type ParticipantRegisteredEvent struct {
    ParticipantID    string  `json:"participant_id"`
    CampID           string  `json:"camp_id"`
    CampName         string  `json:"camp_name"`
    ParticipantName  string  `json:"participant_name"`
    ParticipantEmail string  `json:"participant_email"`
    CampFees         float64 `json:"camp_fees"`
    RegisteredAt     string  `json:"registered_at"`
}

// ParticipantCancelledEvent is published after a registration is deleted.
// CounterOutcome reports what happened to the camp's participant counter
// ("applied", "camp_missing", "at_floor" or "failed").
type ParticipantCancelledEvent struct {
    ParticipantID    string `json:"participant_id"`
    CampID           string `json:"camp_id"`
    ParticipantEmail string `json:"participant_email"`
    CounterOutcome   string `json:"counter_outcome"`
    CancelledAt      string `json:"cancelled_at"`
}

// PaymentSucceededEvent is consumed from the payment.succeeded queue.  It is
// produced by the payment webhook relay once the processor reports a
// successful charge for a registration.
type PaymentSucceededEvent struct {
    ParticipantID string `json:"participant_id"`
    TransactionID string `json:"transaction_id"`
    PaidAt        string `json:"paid_at"`
}
