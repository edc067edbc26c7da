package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"
)

// Publisher sends domain events to RabbitMQ.  Each publish opens its own
// connection so a broker outage never poisons later requests.  Dialing is
// bounded by the caller's deadline and by publishTimeout; errors are
// logged and returned so callers can ignore them without interrupting the
// main request flow.  Messages are marked persistent.
type Publisher struct {
    url string
    log zerolog.Logger
}

// publishTimeout bounds one publish, dial and handshake included, when the
// caller's context allows longer.
const publishTimeout = 3 * time.Second

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
    return &Publisher{url: url, log: log.With().Str("component", "rabbitmq-publisher").Logger()}
}

// dialTimeout is the time left before ctx expires, capped at limit.  An
// expired context yields its error.
func dialTimeout(ctx context.Context, limit time.Duration) (time.Duration, error) {
    if err := ctx.Err(); err != nil {
        return 0, err
    }
    d := limit
    if deadline, ok := ctx.Deadline(); ok {
        if left := time.Until(deadline); left < d {
            d = left
        }
    }
    if d <= 0 {
        return 0, context.DeadlineExceeded
    }
    return d, nil
}

// PublishRegistered publishes to participant.registered.
func (p *Publisher) PublishRegistered(ctx context.Context, ev ParticipantRegisteredEvent) error {
    return p.publish(ctx, ParticipantRegisteredQueue, ev)
}

// PublishCancelled publishes to participant.cancelled.
func (p *Publisher) PublishCancelled(ctx context.Context, ev ParticipantCancelledEvent) error {
    return p.publish(ctx, ParticipantCancelledQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
    ctx, cancel := context.WithTimeout(ctx, publishTimeout)
    defer cancel()
    timeout, err := dialTimeout(ctx, publishTimeout)
    if err != nil {
        p.log.Error().Err(err).Str("queue", queueName).Msg("publish skipped")
        return err
    }
    // amqp.Dial would wait up to 30s for the handshake; keep the request's budget.
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
    if err != nil {
        p.log.Error().Err(err).Str("queue", queueName).Msg("dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Error().Err(err).Str("queue", queueName).Msg("channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queueName, // name
        true,      // durable
        false,     // autoDelete
        false,     // exclusive
        false,     // noWait
        nil,       // args
    ); err != nil {
        p.log.Error().Err(err).Str("queue", queueName).Msg("queue declare failed")
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        p.log.Error().Err(err).Str("queue", queueName).Msg("marshal event failed")
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",        // default exchange
        queueName, // routing key = queue name
        false,     // mandatory
        false,     // immediate
        pub,
    ); err != nil {
        p.log.Error().Err(err).Str("queue", queueName).Msg("publish failed")
        return err
    }
    return nil
}
