package service

import (
	"context"
	"errors"
	"testing"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pendingOutbox(t *testing.T, ts *testServices) []model.PartnerOutbox {
	t.Helper()
	repo := &mysql.OutboxRepository{DB: ts.db}
	rows, err := repo.List(context.Background(), 100)
	require.NoError(t, err)
	return rows
}

func TestLifecycleWritesOutboxRows(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	_, err = ts.partnership.View(ctx, p.Token)
	require.NoError(t, err)
	_, err = ts.partnership.Respond(ctx, p.Token, true)
	require.NoError(t, err)

	rows := pendingOutbox(t, ts)
	require.Len(t, rows, 3)
	assert.Equal(t, mysql.EventInvited, rows[0].EventType)
	assert.Equal(t, mysql.EventViewed, rows[1].EventType)
	assert.Equal(t, mysql.EventAccepted, rows[2].EventType)
	for _, row := range rows {
		assert.Equal(t, p.ID, row.PartnershipID)
		assert.Contains(t, row.Payload, "jane@example.com")
	}
}

func TestRelayerMarksSentAndFailed(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p1, _, err := ts.partnership.Invite(ctx, adminA, companyID, "a@example.com", "A A", "")
	require.NoError(t, err)
	_, _, err = ts.partnership.Invite(ctx, adminA, companyID, "b@example.com", "B B", "")
	require.NoError(t, err)

	var sent []uint64
	sender := func(ctx context.Context, ob *model.PartnerOutbox) error {
		if ob.PartnershipID == p1.ID {
			return errors.New("broker down")
		}
		sent = append(sent, ob.ID)
		return nil
	}

	relayer := NewOutboxRelayer(ts.db, sender, zap.NewNop())
	relayer.drainOnce(ctx)

	assert.Len(t, sent, 1)

	var rows []model.PartnerOutbox
	require.NoError(t, ts.db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 2, rows[0].Status, "failed send is marked for inspection")
	assert.Equal(t, 1, rows[0].Retry)
	assert.EqualValues(t, 1, rows[1].Status)

	// Nothing pending remains after the drain.
	assert.Empty(t, pendingOutbox(t, ts))
}
