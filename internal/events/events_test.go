package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foodaudit/pkg/domain"
)

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()
	auditID := id.NewAuditID()
	other := id.NewAuditID()

	require.NoError(t, sink.Emit(ctx, Event{Type: TypeAuditCreated, AuditID: auditID}))
	require.NoError(t, sink.Emit(ctx, Event{Type: TypeAuditStarted, AuditID: auditID}))
	require.NoError(t, sink.Emit(ctx, Event{Type: TypeAuditCreated, AuditID: other}))

	all := sink.Events()
	require.Len(t, all, 3)
	assert.False(t, all[0].Timestamp.IsZero(), "emit stamps missing timestamps")

	trail := sink.ByAudit(auditID)
	require.Len(t, trail, 2)
	assert.Equal(t, TypeAuditCreated, trail[0].Type)
	assert.Equal(t, TypeAuditStarted, trail[1].Type)
}

func TestMemorySinkKeepsExplicitTimestamp(t *testing.T) {
	sink := NewMemorySink()
	stamp := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, sink.Emit(context.Background(), Event{
		Type:      TypeAuditSubmitted,
		AuditID:   id.NewAuditID(),
		Timestamp: stamp,
	}))
	assert.Equal(t, stamp, sink.Events()[0].Timestamp)
}
