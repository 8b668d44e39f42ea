package webservice

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsConnMock struct {
	msgs  chan string
	wrote []interface{}
}

func newWsConnMock() *wsConnMock {
	return &wsConnMock{msgs: make(chan string, 2)}
}

func (m *wsConnMock) ReadMessage() (int, []byte, error) {
	msg, ok := <-m.msgs
	if !ok {
		return 0, nil, errors.New("closed")
	}
	return 1, []byte(msg), nil
}

func (m *wsConnMock) Close() error { return nil }

func (m *wsConnMock) WriteJSON(v interface{}) error {
	m.wrote = append(m.wrote, v)
	return nil
}

func TestKeeper_SaveGet(t *testing.T) {
	kp := NewWSConnKeeper()
	conn := newWsConnMock()
	kp.saveConnection(conn, "a1")

	conns, found := kp.GetConnections("a1")
	require.True(t, found)
	assert.Len(t, conns, 1)
	_, found = kp.GetConnections("a2")
	assert.False(t, found)
}

func TestKeeper_Rebind(t *testing.T) {
	kp := NewWSConnKeeper()
	conn := newWsConnMock()
	kp.saveConnection(conn, "a1")
	kp.saveConnection(conn, "a2")

	_, found := kp.GetConnections("a1")
	assert.False(t, found)
	conns, found := kp.GetConnections("a2")
	require.True(t, found)
	assert.Len(t, conns, 1)
}

func TestKeeper_Delete(t *testing.T) {
	kp := NewWSConnKeeper()
	conn := newWsConnMock()
	kp.saveConnection(conn, "a1")
	kp.deleteConnection(conn)

	_, found := kp.GetConnections("a1")
	assert.False(t, found)
}

func TestKeeper_HandleConnection(t *testing.T) {
	kp := NewWSConnKeeper()
	conn := newWsConnMock()
	done := make(chan struct{})
	go func() {
		_ = kp.HandleConnection(conn)
		close(done)
	}()
	conn.msgs <- "a1"
	assert.Eventually(t, func() bool {
		_, found := kp.GetConnections("a1")
		return found
	}, time.Second*2, time.Millisecond*10)

	close(conn.msgs)
	select {
	case <-done:
	case <-time.After(time.Second * 2):
		t.Fatal("handler did not exit")
	}
	_, found := kp.GetConnections("a1")
	assert.False(t, found)
}

func TestWSNotifier_StatusChanged(t *testing.T) {
	kp := NewWSConnKeeper()
	conn := newWsConnMock()
	kp.saveConnection(conn, "a1")

	n := NewWSNotifier(kp)
	n.StatusChanged("a1", "in_progress")

	require.Len(t, conn.wrote, 1)
	ev, ok := conn.wrote[0].(*statusEvent)
	require.True(t, ok)
	assert.Equal(t, "a1", ev.ID)
	assert.Equal(t, "in_progress", ev.Status)
}

func TestWSNotifier_NoSubscribers(t *testing.T) {
	n := NewWSNotifier(NewWSConnKeeper())
	n.StatusChanged("a1", "in_progress")
}
