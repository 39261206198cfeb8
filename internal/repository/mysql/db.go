package mysql

import (
	"fmt"

	"github.com/derintolu/frs-partner-network/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB connects to MySQL and runs migrations. TranslateError lets the
// repositories match gorm.ErrDuplicatedKey instead of driver error codes.
func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	DB = db
	return nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Company{},
		&model.Member{},
		&model.Partnership{},
		&model.ActivityEntry{},
		&model.PartnerOutbox{},
	)
}
