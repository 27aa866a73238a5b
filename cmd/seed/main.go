package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/studyflow/api/internal/config"
	"github.com/studyflow/api/internal/database"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

func main() {
	password := flag.String("password", "password123", "Password for seeded accounts")
	tagsStr := flag.String("tags", "go,databases,testing,algorithms", "Comma-separated tag names to seed")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	users := []model.User{
		{Username: "alice", Email: "alice@studyflow.local", Role: model.RoleStudent, Bio: "First-year student"},
		{Username: "bob", Email: "bob@studyflow.local", Role: model.RoleInstructor, Bio: "Instructor"},
		{Username: "carol", Email: "carol@studyflow.local", Role: model.RoleStudent},
	}

	created := 0
	for i := range users {
		ok, err := seedUser(db, &users[i], *password)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", users[i].Username, err)
		}
		if ok {
			created++
		}
	}
	log.Printf("Users: created=%d, existing=%d", created, len(users)-created)

	seeded := 0
	for _, name := range strings.Split(*tagsStr, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		var tag model.Tag
		err := db.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&model.Tag{Name: name}).Error; err != nil {
				log.Fatalf("Failed to seed tag %s: %v", name, err)
			}
			seeded++
		} else if err != nil {
			log.Fatalf("Failed to seed tag %s: %v", name, err)
		}
	}
	log.Printf("Tags: created=%d", seeded)

	log.Println("Seeding complete")
}

// seedUser creates the account if its username is free. Returns whether a
// row was created.
func seedUser(db *gorm.DB, u *model.User, password string) (bool, error) {
	var existing model.User
	err := db.Where("username = ?", u.Username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := u.SetPassword(password); err != nil {
		return false, err
	}
	if err := db.Create(u).Error; err != nil {
		return false, err
	}
	return true, nil
}
