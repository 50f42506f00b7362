package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/driveads/campaign-management/internal/core/database"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	earningDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/earning"
	ledgerDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/ledger"
	userDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := database.OpenGorm(sqlxDB.DB)
		if err != nil {
			log.Fatalf("failed to open gorm session: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"notifications", "earnings", "bank_details", "weekly_proofs",
				"installment_proofs", "invoices", "driver_campaigns",
				"campaign_designs", "campaigns", "business_owner_ledgers", "users",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		admin := seedUser(db, "admin@driveads.test", userDatamodel.RoleAdmin, string(hash))
		owner := seedUser(db, "owner@driveads.test", userDatamodel.RoleBusinessOwner, string(hash))
		driver := seedUser(db, "driver@driveads.test", userDatamodel.RoleDriver, string(hash))

		seedLedger(db, owner.ID)
		seedCampaign(db, owner.ID)
		seedBankDetail(db, driver.ID)

		fmt.Println("Seeded admin:", admin.Email)
		fmt.Println("Seeded business owner:", owner.Email)
		fmt.Println("Seeded driver:", driver.Email)
	},
}

func seedUser(db *gorm.DB, email, role, passwordHash string) *userDatamodel.User {
	var existing userDatamodel.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Println("user already exists:", email)
		return &existing
	}

	u := &userDatamodel.User{
		Email:    email,
		Password: passwordHash,
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func seedLedger(db *gorm.DB, ownerID int64) {
	var existing ledgerDatamodel.BusinessOwnerLedger
	if err := db.Where("user_id = ?", ownerID).First(&existing).Error; err == nil {
		return
	}

	l := &ledgerDatamodel.BusinessOwnerLedger{
		UserID:       ownerID,
		BusinessName: "DriveAds Demo Fleet",
		Balance:      5000000,
	}
	if err := db.Create(l).Error; err != nil {
		log.Fatalf("failed to seed ledger: %v", err)
	}
}

func seedCampaign(db *gorm.DB, ownerID int64) {
	var count int64
	db.Model(&campaignDatamodel.Campaign{}).Where("user_id = ?", ownerID).Count(&count)
	if count > 0 {
		return
	}

	start := time.Now().AddDate(0, 0, 14)
	c := &campaignDatamodel.Campaign{
		UserID:       ownerID,
		CampaignName: "City Rides Launch",
		Description:  "Door wraps on downtown ride-hailing vehicles.",
		State:        "Lagos",
		StatusType:   campaignDatamodel.StatusDraft,
		Duration:     28,
		Price:        400000,
		NoOfDrivers:  4,
		StartDate:    &start,
	}
	if err := db.Create(c).Error; err != nil {
		log.Fatalf("failed to seed campaign: %v", err)
	}
}

func seedBankDetail(db *gorm.DB, driverID int64) {
	var existing earningDatamodel.BankDetail
	if err := db.Where("user_id = ?", driverID).First(&existing).Error; err == nil {
		return
	}

	code := "RCP_demo0001"
	d := &earningDatamodel.BankDetail{
		UserID:        driverID,
		BankName:      "First Bank",
		AccountNumber: "0123456789",
		RecipientCode: &code,
	}
	if err := db.Create(d).Error; err != nil {
		log.Fatalf("failed to seed bank detail: %v", err)
	}
}
