// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()

	natsServer, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go natsServer.Start()
	t.Cleanup(natsServer.Shutdown)
	require.True(t, natsServer.ReadyForConnections(5*time.Second), "nats server did not start")

	conn, err := nats.Connect(natsServer.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

/*
TestNATSPublisher delivers events on <prefix>.<kind> subjects.
*/
func TestNATSPublisher(t *testing.T) {
	conn := startNATS(t)

	subscription, err := conn.SubscribeSync("interactions.>")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	publisher := NewNATSPublisher(conn, "interactions", discardLogger())
	event := NewEvent(EventRated, 7, 260)
	event.Rating = 5
	require.NoError(t, publisher.Publish(context.Background(), event))

	message, err := subscription.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "interactions.rated", message.Subject)

	var received Event
	require.NoError(t, json.Unmarshal(message.Data, &received))
	assert.Equal(t, event.ID, received.ID)
	assert.Equal(t, int64(260), received.ItemID)
	assert.Equal(t, 5, received.Rating)
}

/*
TestNATSPublisher_Disabled is a no-op without a connection.
*/
func TestNATSPublisher_Disabled(t *testing.T) {
	publisher := NewNATSPublisher(nil, "interactions", discardLogger())
	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(EventSeen, 1, 1)))

	var absent *NATSPublisher
	assert.NoError(t, absent.Publish(context.Background(), NewEvent(EventSeen, 1, 1)))
}
