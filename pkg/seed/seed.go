package seed

import (
	"log"
	"os"

	"coachly_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the platform admin account once. The tier catalog
// itself is static in-process data and needs no seeding.
func SeedAdminUser(db *gorm.DB) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := model.User{
		Email:      adminEmail,
		Password:   string(hashedPassword),
		Username:   "admin",
		Role:       model.RoleAdmin,
		FirstName:  "Platform",
		LastName:   "Admin",
		IsVerified: true,
	}

	result := db.FirstOrCreate(&admin, model.User{Email: adminEmail})
	if result.Error != nil {
		log.Printf("Error creating admin user: %v", result.Error)
		return
	}

	log.Println("Admin user seeded successfully!")
}
