package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/auth"
	"github.com/autowerk/garage-management/internal/garage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo garage, users for every role and the permission table.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(gormpg.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}

		if clearData {
			for _, table := range []string{"permissions", "login_attempts", "users", "garages"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			log.Println("cleared existing seed data")
		}

		seedPermissions(db)
		garageID := seedGarage(db)
		seedUsers(db, garageID, cfg.Auth.BCryptCost)

		log.Println("seeding complete")
	},
}

// rolePermissions is the default grant matrix. Every row is explicit;
// super_admin gets rows like any other role rather than a wildcard.
var rolePermissions = map[auth.Role]map[string][4]bool{
	auth.RoleSuperAdmin: {
		auth.ModuleGarages:   {true, true, true, true},
		auth.ModuleCustomers: {true, true, true, true},
		auth.ModuleVehicles:  {true, true, true, true},
		auth.ModuleJobCards:  {true, true, true, true},
		auth.ModuleInvoices:  {true, true, true, true},
		auth.ModuleInventory: {true, true, true, true},
		auth.ModuleGatePass:  {true, true, true, true},
		auth.ModuleReports:   {true, false, false, false},
	},
	auth.RoleAdmin: {
		auth.ModuleCustomers: {true, true, true, true},
		auth.ModuleVehicles:  {true, true, true, false},
		auth.ModuleJobCards:  {true, true, true, false},
		auth.ModuleInvoices:  {true, true, true, false},
		auth.ModuleInventory: {true, true, true, false},
		auth.ModuleGatePass:  {true, true, true, false},
		auth.ModuleReports:   {true, false, false, false},
	},
	auth.RoleAccountant: {
		auth.ModuleCustomers: {true, false, false, false},
		auth.ModuleInvoices:  {true, true, true, false},
		auth.ModuleReports:   {true, false, false, false},
	},
	auth.RoleEmployee: {
		auth.ModuleCustomers: {true, true, true, false},
		auth.ModuleVehicles:  {true, true, true, false},
		auth.ModuleJobCards:  {true, true, true, false},
		auth.ModuleInventory: {true, false, false, false},
		auth.ModuleGatePass:  {true, true, true, false},
	},
	auth.RoleSupportStaff: {
		auth.ModuleCustomers: {true, false, false, false},
		auth.ModuleVehicles:  {true, false, false, false},
		auth.ModuleJobCards:  {true, false, false, false},
	},
	auth.RoleCustomer: {
		auth.ModuleJobCards: {true, false, false, false},
		auth.ModuleInvoices: {true, false, false, false},
	},
}

func seedPermissions(db *gorm.DB) {
	for role, modules := range rolePermissions {
		for module, flags := range modules {
			var existing auth.Permission
			err := db.Where("role = ? AND module = ?", role, module).First(&existing).Error
			if err == nil {
				continue
			}

			p := auth.Permission{
				Role:      role,
				Module:    module,
				CanView:   flags[0],
				CanCreate: flags[1],
				CanEdit:   flags[2],
				CanDelete: flags[3],
				CreatedAt: time.Now(),
			}
			if err := db.Create(&p).Error; err != nil {
				log.Fatalf("failed to seed permission %s/%s: %v", role, module, err)
			}
		}
	}
	log.Println("seeded permission table")
}

func seedGarage(db *gorm.DB) int64 {
	var existing garage.Garage
	if err := db.Where("name = ?", "Autowerk Demo Garage").First(&existing).Error; err == nil {
		log.Println("demo garage already exists")
		return existing.ID
	}

	now := time.Now()
	g := garage.Garage{
		Name:      "Autowerk Demo Garage",
		OwnerName: "Dieter Vogel",
		Phone:     "+49-30-5550-1234",
		Email:     "werkstatt@autowerk.example",
		Address:   "Kantstrasse 152, Berlin",
		Status:    garage.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&g).Error; err != nil {
		log.Fatalf("failed to seed garage: %v", err)
	}
	log.Println("seeded demo garage:", g.Name)
	return g.ID
}

func seedUsers(db *gorm.DB, garageID int64, bcryptCost int) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := []auth.User{
		{GarageID: 0, Username: "root", DisplayName: "Platform Operator", Role: auth.RoleSuperAdmin},
		{GarageID: garageID, Username: "dieter", DisplayName: "Dieter Vogel", Role: auth.RoleAdmin},
		{GarageID: garageID, Username: "marta", DisplayName: "Marta Keller", Role: auth.RoleAccountant},
		{GarageID: garageID, Username: "jonas", DisplayName: "Jonas Brandt", Role: auth.RoleEmployee},
	}

	now := time.Now()
	for i := range users {
		u := &users[i]

		var existing auth.User
		if err := db.Where("username = ?", u.Username).First(&existing).Error; err == nil {
			log.Printf("user %s already exists", u.Username)
			continue
		}

		u.PasswordHash = string(hash)
		u.IsActive = true
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := db.Create(u).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", u.Username, err)
		}
		log.Printf("seeded user %s (%s)", u.Username, u.Role)
	}
}
