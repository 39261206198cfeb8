package service

import (
	"context"
	"strings"
	"testing"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []RawRow {
	return []RawRow{
		{Email: "ann@example.com", FirstName: "Ann", LastName: "Archer"},
		{Email: "bad-email", FirstName: "Bob", LastName: "Broken"},
		{Email: "carl@example.com", FirstName: "Carl", LastName: "Crane"},
	}
}

func TestIngestRecordsPerRowFailures(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	result, err := ts.ingest.Ingest(ctx, adminA, companyID, sampleRows())
	require.NoError(t, err)
	require.Len(t, result.Rows, 3, "every row gets a result")
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	assert.True(t, result.Rows[0].Success)
	assert.False(t, result.Rows[1].Success, "bad email fails its row only")
	assert.Equal(t, "invalid email", result.Rows[1].Message)
	assert.True(t, result.Rows[2].Success, "rows after a failure still run")
}

func TestIngestIsIdempotent(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)
	rows := []RawRow{
		{Email: "ann@example.com", FirstName: "Ann", LastName: "Archer"},
		{Email: "carl@example.com", FirstName: "Carl", LastName: "Crane"},
	}

	first, err := ts.ingest.Ingest(ctx, adminA, companyID, rows)
	require.NoError(t, err)
	require.Equal(t, 2, first.Succeeded)

	second, err := ts.ingest.Ingest(ctx, adminA, companyID, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Succeeded, "re-upload reports success for every row")
	assert.Zero(t, second.Failed)

	var members int64
	require.NoError(t, ts.db.Model(&model.Member{}).Where("company_id = ?", companyID).Count(&members).Error)
	assert.EqualValues(t, 3, members, "creator + two partners, no duplicates")

	var users int64
	require.NoError(t, ts.db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users, "accounts are not re-provisioned")
}

func TestIngestByNonMemberForbidden(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	_, err := ts.ingest.Ingest(ctx, userC, companyID, sampleRows())
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestIngestMemberRoleAllowed(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)
	require.NoError(t, ts.membership.AddMember(ctx, companyID, userB, model.RoleMember))

	result, err := ts.ingest.Ingest(ctx, userB, companyID, []RawRow{
		{Email: "dina@example.com", FirstName: "Dina", LastName: "Drake"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

func TestParseCSV(t *testing.T) {
	input := "email,first_name,last_name,phone\nann@example.com,Ann,Archer,555-0100\ncarl@example.com, Carl ,Crane\n"
	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ann@example.com", rows[0].Email)
	assert.Equal(t, "555-0100", rows[0].Phone)
	assert.Equal(t, "Carl", rows[1].FirstName)
}

func TestParseCSVNoHeader(t *testing.T) {
	input := "ann@example.com,Ann,Archer\n"
	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ann", rows[0].FirstName)
}

func TestShortCSVRowFailsOnlyItself(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	companyID := newCompany(t, ts, adminA)

	rows, err := ParseCSV(strings.NewReader("ann@example.com,Ann,Archer\nbob@example.com,Bob\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2, "a short row still yields a row")

	result, err := ts.ingest.Ingest(ctx, adminA, companyID, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.Rows[0].Success)
	assert.False(t, result.Rows[1].Success)
	assert.Equal(t, "first and last name required", result.Rows[1].Message)
}
