package mysql

import (
	"github.com/derintolu/frs-partner-network/internal/model"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	DB *gorm.DB
}

// Create inserts the company and attaches the creator as its first admin in
// one transaction, so a fresh company always satisfies the last-admin rule.
func (r *CompanyRepository) Create(c *model.Company) (*model.Company, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		mRepo := &MemberRepository{DB: tx}
		return mRepo.Attach(&model.Member{
			CompanyID: c.ID,
			UserID:    c.CreatorID,
			Role:      model.RoleAdmin,
		})
	})
	return c, err
}

func (r *CompanyRepository) FindByID(id uint64) (*model.Company, error) {
	var company model.Company
	err := r.DB.First(&company, id).Error
	return &company, err
}

func (r *CompanyRepository) List(offset, limit int) ([]model.Company, error) {
	var list []model.Company
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CompanyRepository) UpdateBranding(id uint64, primary, secondary, buttonStyle string) error {
	tx := r.DB.Model(&model.Company{}).Where("id = ?", id).Updates(map[string]any{
		"primary_color":   primary,
		"secondary_color": secondary,
		"button_style":    buttonStyle,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		// Zero rows is also what an unchanged update reports, so tell the
		// two cases apart before claiming the company is missing.
		var n int64
		if err := r.DB.Model(&model.Company{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// DeleteByID removes the company and everything it owns. Idempotent: deleting
// an absent company is not an error.
func (r *CompanyRepository) DeleteByID(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&model.Member{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&model.Partnership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&model.ActivityEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Company{}, id).Error
	})
}
