package mysql

import (
	"context"
	"errors"

	"github.com/derintolu/frs-partner-network/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	DB *gorm.DB
}

// Attach inserts idempotently: an existing (company_id, user_id) row is left
// untouched and reported as ok. Bulk re-uploads rely on this.
func (r *MemberRepository) Attach(member *model.Member) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member).Error
}

// Add inserts strictly, surfacing the unique-index violation.
func (r *MemberRepository) Add(member *model.Member) error {
	return r.DB.Create(member).Error
}

func (r *MemberRepository) Find(companyID, userID uint64) (*model.Member, error) {
	var m model.Member
	err := r.DB.Where("company_id = ? AND user_id = ?", companyID, userID).First(&m).Error
	return &m, err
}

// List returns members ordered by joined_at asc with id as tiebreak, so pages
// keep a stable order.
func (r *MemberRepository) List(ctx context.Context, companyID uint64) ([]model.Member, error) {
	var list []model.Member
	err := r.DB.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *MemberRepository) CountAdmins(ctx context.Context, companyID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Member{}).
		Where("company_id = ? AND role = ?", companyID, model.RoleAdmin).
		Count(&n).Error
	return n, err
}

// ChangeRole updates the member's role in one guarded statement: demoting an
// admin only applies while another admin remains, which keeps two concurrent
// demotions from both slipping through. The admin count is re-read inside the
// UPDATE itself (derived table, so MySQL accepts the self-reference).
func (r *MemberRepository) ChangeRole(ctx context.Context, companyID, userID uint64, newRole model.Role) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE company_members
			SET role = ?
			WHERE company_id = ? AND user_id = ?
			  AND (? = 'admin' OR role <> 'admin'
			       OR (SELECT COUNT(*) FROM (
			             SELECT id FROM company_members WHERE company_id = ? AND role = 'admin'
			           ) AS admins) > 1)`,
			newRole, companyID, userID, newRole, companyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// Nothing changed: absent member, same role, or last admin.
		var m model.Member
		if err := tx.Where("company_id = ? AND user_id = ?", companyID, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		if m.Role == newRole {
			return nil
		}
		return ErrLastAdminGuard
	})
}

// Remove deletes the member under the same last-admin guard as ChangeRole.
func (r *MemberRepository) Remove(ctx context.Context, companyID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			DELETE FROM company_members
			WHERE company_id = ? AND user_id = ?
			  AND (role <> 'admin'
			       OR (SELECT COUNT(*) FROM (
			             SELECT id FROM company_members WHERE company_id = ? AND role = 'admin'
			           ) AS admins) > 1)`,
			companyID, userID, companyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		var m model.Member
		if err := tx.Where("company_id = ? AND user_id = ?", companyID, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		return ErrLastAdminGuard
	})
}

// ErrLastAdminGuard marks a guarded statement that matched a row but declined
// to change it because the company would lose its last admin.
var ErrLastAdminGuard = errors.New("last admin guard")
