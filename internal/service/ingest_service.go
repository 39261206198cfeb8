package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RawRow is one line of a partner upload.
type RawRow struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// RowResult is the per-row outcome. The batch never aborts on a bad row.
type RowResult struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

type IngestResult struct {
	Rows      []RowResult `json:"rows"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// IngestService attaches partners to a company in bulk: resolve each email to
// an account, then attach as role=member. Rows are independent; re-running
// the same file is idempotent.
type IngestService struct {
	db         *gorm.DB
	identity   *IdentityService
	membership *MembershipService
	rowTimeout time.Duration
	logger     *zap.Logger
}

func NewIngestService(db *gorm.DB, identity *IdentityService, membership *MembershipService, logger *zap.Logger) *IngestService {
	return &IngestService{
		db:         db,
		identity:   identity,
		membership: membership,
		rowTimeout: 10 * time.Second,
		logger:     logger.Named("ingest_service"),
	}
}

func (s *IngestService) Ingest(ctx context.Context, actorID, companyID uint64, rows []RawRow) (*IngestResult, error) {
	role, err := s.membership.actorRole(ctx, companyID, actorID)
	if err != nil {
		return nil, err
	}
	if !pkg.Can(role, pkg.OpInvite) {
		return nil, fmt.Errorf("%w: role %s may not import partners", pkg.ErrForbidden, role)
	}

	result := &IngestResult{Rows: make([]RowResult, 0, len(rows))}
	for _, row := range rows {
		out := s.ingestRow(ctx, companyID, row)
		if out.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Rows = append(result.Rows, out)
	}
	s.logger.Info("bulk ingest finished",
		zap.Uint64("company_id", companyID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ingestRow never lets one row's failure escape: a slow resolver times out on
// the row's own context and the batch keeps going.
func (s *IngestService) ingestRow(ctx context.Context, companyID uint64, row RawRow) RowResult {
	out := RowResult{Email: row.Email, FirstName: row.FirstName, LastName: row.LastName}

	if _, err := mail.ParseAddress(row.Email); err != nil {
		out.Message = "invalid email"
		return out
	}
	if strings.TrimSpace(row.FirstName) == "" || strings.TrimSpace(row.LastName) == "" {
		out.Message = "first and last name required"
		return out
	}

	rowCtx, cancel := context.WithTimeout(ctx, s.rowTimeout)
	defer cancel()

	userID, _, err := s.identity.Resolve(rowCtx, row.Email, row.FirstName, row.LastName)
	if err != nil {
		if errors.Is(err, pkg.ErrResolutionFailed) {
			out.Message = "identity resolution failed"
		} else {
			out.Message = err.Error()
		}
		return out
	}

	repo := &mysql.MemberRepository{DB: s.db.WithContext(rowCtx)}
	if err := repo.Attach(&model.Member{
		CompanyID: companyID,
		UserID:    userID,
		Role:      model.RoleMember,
	}); err != nil {
		out.Message = "could not attach member"
		return out
	}

	out.Success = true
	out.Message = "ok"
	return out
}

// ParseCSV reads rows of email,first,last[,phone]. A leading header row is
// skipped when its first field looks like a column name. Short rows are padded
// with empty fields so they fail their own ingestion instead of the batch.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []RawRow
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed csv: %v", pkg.ErrValidation, err)
		}
		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "email") {
				continue
			}
		}
		var row RawRow
		if len(record) > 0 {
			row.Email = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			row.FirstName = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			row.LastName = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			row.Phone = strings.TrimSpace(record[3])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
