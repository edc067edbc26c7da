package queue

import (
    "context"
    "net"
    "sync"
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDialTimeout(t *testing.T) {
    d, err := dialTimeout(context.Background(), 3*time.Second)
    require.NoError(t, err)
    assert.Equal(t, 3*time.Second, d)

    ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
    defer cancel()
    d, err = dialTimeout(ctx, 3*time.Second)
    require.NoError(t, err)
    assert.LessOrEqual(t, d, 200*time.Millisecond)
    assert.Greater(t, d, time.Duration(0))

    done, stop := context.WithCancel(context.Background())
    stop()
    _, err = dialTimeout(done, 3*time.Second)
    assert.ErrorIs(t, err, context.Canceled)
}

// A broker that accepts TCP but never answers the AMQP handshake must not
// hold a publish past the caller's deadline.
func TestPublishHonoursDeadlineOnSilentBroker(t *testing.T) {
    ln, err := net.Listen("tcp", "127.0.0.1:0")
    require.NoError(t, err)

    var mu sync.Mutex
    var held []net.Conn
    go func() {
        for {
            c, err := ln.Accept()
            if err != nil {
                return
            }
            mu.Lock()
            held = append(held, c)
            mu.Unlock()
        }
    }()
    t.Cleanup(func() {
        _ = ln.Close()
        mu.Lock()
        defer mu.Unlock()
        for _, c := range held {
            _ = c.Close()
        }
    })

    p := NewPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", zerolog.Nop())
    ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
    defer cancel()

    start := time.Now()
    err = p.PublishRegistered(ctx, ParticipantRegisteredEvent{ParticipantID: "p-1"})
    assert.Error(t, err)
    assert.Less(t, time.Since(start), 2*time.Second)
}
