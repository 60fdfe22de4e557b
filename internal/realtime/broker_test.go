package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewBroker(rdb, "realtime:", time.Second)
}

func receive(t *testing.T, events <-chan domain.ChangeEvent) domain.ChangeEvent {
	t.Helper()

	select {
	case event, ok := <-events:
		require.True(t, ok, "events channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
		return domain.ChangeEvent{}
	}
}

func TestBrokerDeliversEventsForSubscribedTable(t *testing.T) {
	b := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx, domain.TableProjects)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, domain.ChangeEvent{Table: domain.TableProfiles, Type: domain.ChangeInsert, RecordID: "p-1"}))
	require.NoError(t, b.Publish(ctx, domain.ChangeEvent{Table: domain.TableProjects, Type: domain.ChangeUpdate, RecordID: "x-1"}))

	event := receive(t, events)
	assert.Equal(t, domain.TableProjects, event.Table)
	assert.Equal(t, domain.ChangeUpdate, event.Type)
	assert.Equal(t, "x-1", event.RecordID)
	assert.False(t, event.CommitTimestamp.IsZero())
}

func TestBrokerClosesChannelWhenContextEnds(t *testing.T) {
	b := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := b.Subscribe(ctx, domain.TableProjects)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
