package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInviteValidation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	_, _, err := ts.partnership.Invite(ctx, adminA, companyID, "not-an-email", "Jane Doe", "")
	assert.ErrorIs(t, err, pkg.ErrValidation)

	_, _, err = ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "   ", "")
	assert.ErrorIs(t, err, pkg.ErrValidation)
}

func TestInviteCreatesPendingPartnership(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, resent, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "hi Jane")
	require.NoError(t, err)
	assert.False(t, resent)
	assert.Equal(t, model.PartnershipPending, p.Status)
	assert.NotEmpty(t, p.Token)
	assert.Equal(t, "jane@example.com", p.InviteeEmail)

	require.Eventually(t, func() bool { return ts.notifier.count() == 1 },
		time.Second, 10*time.Millisecond, "invitation email should go out")
}

func TestInviteByNonMemberForbidden(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	_, _, err := ts.partnership.Invite(ctx, userC, companyID, "jane@example.com", "Jane Doe", "")
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestReinviteOutstandingResendsInstead(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	first, resent, err := ts.partnership.Invite(ctx, adminA, companyID, "x@y.com", "X Y", "hi")
	require.NoError(t, err)
	require.False(t, resent)

	second, resent, err := ts.partnership.Invite(ctx, adminA, companyID, "x@y.com", "X Y", "hi")
	require.NoError(t, err)
	assert.True(t, resent, "second invite must resend, not duplicate")
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.StatusChangedAt.Before(first.StatusChangedAt))

	var n int64
	require.NoError(t, ts.db.Model(&model.Partnership{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestResendKeepsStatus(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "x@y.com", "X Y", "")
	require.NoError(t, err)

	again, err := ts.partnership.Resend(ctx, adminA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipPending, again.Status)
}

func TestResendByPlainMemberForbidden(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)
	require.NoError(t, ts.membership.AddMember(ctx, companyID, userB, model.RoleMember))

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "x@y.com", "X Y", "")
	require.NoError(t, err)

	_, err = ts.partnership.Resend(ctx, userB, p.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestViewMarksPendingViewed(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "x@y.com", "X Y", "")
	require.NoError(t, err)

	viewed, err := ts.partnership.View(ctx, p.Token)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipViewed, viewed.Status)

	// Opening the link again is a no-op.
	viewed, err = ts.partnership.View(ctx, p.Token)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipViewed, viewed.Status)
}

func TestAcceptCreatesMemberTransactionally(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)

	accepted, err := ts.partnership.Respond(ctx, p.Token, true)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipAccepted, accepted.Status)

	// Exactly one member row for the invitee, with role=member.
	userID, created, err := ts.identity.Resolve(ctx, "jane@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created, "accept must have provisioned the account")

	repo := &mysql.MemberRepository{DB: ts.db}
	m, err := repo.Find(companyID, userID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, m.Role)
}

func TestDeclineCreatesNoMember(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)

	declined, err := ts.partnership.Respond(ctx, p.Token, false)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipDeclined, declined.Status)

	var n int64
	require.NoError(t, ts.db.Model(&model.Member{}).Where("company_id = ? AND role = ?", companyID, model.RoleMember).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRespondAfterTerminalIsInvalidState(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)

	_, err = ts.partnership.Respond(ctx, p.Token, false)
	require.NoError(t, err)

	// Accept after decline must fail and leave the status untouched.
	_, err = ts.partnership.Respond(ctx, p.Token, true)
	assert.ErrorIs(t, err, pkg.ErrInvalidState)
	assert.Contains(t, err.Error(), string(model.PartnershipDeclined))

	repo := &mysql.PartnershipRepository{DB: ts.db}
	current, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipDeclined, current.Status)

	// A second decline is rejected the same way.
	_, err = ts.partnership.Respond(ctx, p.Token, false)
	assert.ErrorIs(t, err, pkg.ErrInvalidState)
}

func TestResendOnTerminalIsInvalidState(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	_, err = ts.partnership.Respond(ctx, p.Token, true)
	require.NoError(t, err)

	_, err = ts.partnership.Resend(ctx, adminA, p.ID)
	assert.ErrorIs(t, err, pkg.ErrInvalidState)
}

func TestReinviteAfterTerminalCreatesFresh(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	_, err = ts.partnership.Respond(ctx, p.Token, false)
	require.NoError(t, err)

	// The old invite is terminal, so a new invitation starts over.
	fresh, resent, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	assert.False(t, resent)
	assert.NotEqual(t, p.ID, fresh.ID)
	assert.Equal(t, model.PartnershipPending, fresh.Status)
}

func TestEstimateProgress(t *testing.T) {
	ts := newTestServices(t)

	fresh := &model.Partnership{Status: model.PartnershipPending, CreatedAt: time.Now()}
	assert.Equal(t, 0, ts.partnership.EstimateProgress(fresh))

	hourOld := &model.Partnership{Status: model.PartnershipViewed, CreatedAt: time.Now().Add(-time.Hour)}
	assert.Equal(t, 25, ts.partnership.EstimateProgress(hourOld))

	stale := &model.Partnership{Status: model.PartnershipViewed, CreatedAt: time.Now().Add(-48 * time.Hour)}
	assert.Equal(t, 90, ts.partnership.EstimateProgress(stale), "non-terminal progress caps below 100")

	done := &model.Partnership{Status: model.PartnershipAccepted, CreatedAt: time.Now().Add(-time.Minute)}
	assert.Equal(t, 100, ts.partnership.EstimateProgress(done))
}

func TestConcurrentAcceptsAttachOneMember(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ts.partnership.Respond(ctx, p.Token, true)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, pkg.ErrInvalidState)
		assert.Contains(t, err.Error(), string(model.PartnershipAccepted))
		lost++
	}
	assert.Equal(t, 1, won, "exactly one accept applies")
	assert.Equal(t, 1, lost, "the loser observes the terminal state")

	userID, created, err := ts.identity.Resolve(ctx, "jane@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	var n int64
	require.NoError(t, ts.db.Model(&model.Member{}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Count(&n).Error)
	assert.EqualValues(t, 1, n, "a racing double accept attaches a single member row")
}

func TestInviteCreatesFreshWhenDecisionLandsMidway(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	p, _, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)

	// Decline the invitation underneath the second Invite call, after its
	// outstanding-row lookup but before the resend touch runs.
	declined := false
	require.NoError(t, ts.db.Callback().Update().Before("gorm:update").
		Register("decline_before_touch", func(tx *gorm.DB) {
			if declined || tx.Statement.Table != "partnerships" {
				return
			}
			declined = true
			_, _ = tx.Statement.ConnPool.ExecContext(context.Background(),
				"UPDATE partnerships SET status = 'declined' WHERE id = ?", p.ID)
		}))
	t.Cleanup(func() {
		_ = ts.db.Callback().Update().Remove("decline_before_touch")
	})

	fresh, resent, err := ts.partnership.Invite(ctx, adminA, companyID, "jane@example.com", "Jane Doe", "")
	require.NoError(t, err)
	assert.False(t, resent, "a terminal invite must not be reported as resent")
	assert.NotEqual(t, p.ID, fresh.ID)
	assert.Equal(t, model.PartnershipPending, fresh.Status)

	repo := &mysql.PartnershipRepository{DB: ts.db}
	old, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PartnershipDeclined, old.Status)
}
