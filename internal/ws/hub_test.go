package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint, role string) *Client {
	return &Client{UserID: userID, Role: role, Send: make(chan []byte, 4)}
}

func drain(c *Client) int {
	n := 0
	for {
		select {
		case <-c.Send:
			n++
		default:
			return n
		}
	}
}

func TestBroadcastToUser(t *testing.T) {
	h := NewHub()
	alice := newTestClient(1, "customer")
	aliceTab := newTestClient(1, "customer")
	bob := newTestClient(2, "staff")
	h.Register(alice)
	h.Register(aliceTab)
	h.Register(bob)

	h.BroadcastToUser(1, map[string]string{"event": "ping"})

	assert.Equal(t, 1, drain(alice))
	assert.Equal(t, 1, drain(aliceTab))
	assert.Zero(t, drain(bob))
}

func TestBroadcastToRole(t *testing.T) {
	h := NewHub()
	admin := newTestClient(1, "admin")
	staff := newTestClient(2, "staff")
	h.Register(admin)
	h.Register(staff)

	h.BroadcastToRole("admin", map[string]string{"event": "alert"})

	assert.Equal(t, 1, drain(admin))
	assert.Zero(t, drain(staff))
}

func TestBroadcastAllReachesEveryClient(t *testing.T) {
	h := NewHub()
	clients := []*Client{
		newTestClient(1, "customer"),
		newTestClient(2, "staff"),
		newTestClient(3, "admin"),
	}
	for _, c := range clients {
		h.Register(c)
	}

	h.BroadcastAll(map[string]string{"type": "catalog", "event": "updated"})

	for _, c := range clients {
		assert.Equal(t, 1, drain(c))
	}
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	h := NewHub()
	slow := &Client{UserID: 9, Role: "customer", Send: make(chan []byte)}
	h.Register(slow)

	// Nobody reads slow.Send; the broadcast must not block.
	h.BroadcastAll(map[string]string{"event": "noop"})
	h.BroadcastToUser(9, map[string]string{"event": "noop"})
}

func TestCloseUnregisters(t *testing.T) {
	h := NewHub()
	c := newTestClient(5, "staff")
	h.Register(c)
	require.Equal(t, 1, h.ClientCount())

	c.Close()
	assert.Zero(t, h.ClientCount())

	// A second close is a no-op.
	c.Close()
}
