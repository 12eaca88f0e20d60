package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashankshah/solace/internal/config"
	"github.com/ashankshah/solace/internal/model"
	"github.com/ashankshah/solace/internal/repository"
)

// Seeds a demo clinic and clinician account for local development.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	clinicRepo := repository.NewClinicRepo(db)
	accountRepo := repository.NewAccountRepo(db)

	clinic := &model.Clinic{
		Code:    "DEMO01",
		Name:    "Solace Demo Clinic",
		Address: "1 Main St",
		Layout: model.RoomLayout{
			Rows: 3,
			Cols: 4,
			Rooms: []model.Room{
				{Label: "Waiting", Row: 0, Col: 0, Kind: "waiting"},
				{Label: "Exam 1", Row: 0, Col: 1, Kind: "exam"},
				{Label: "Exam 2", Row: 0, Col: 2, Kind: "exam"},
				{Label: "Lab", Row: 1, Col: 0, Kind: "lab"},
			},
		},
	}

	existing, err := clinicRepo.GetByCode(ctx, clinic.Code)
	if err != nil {
		log.Fatal("Failed to check demo clinic:", err)
	}
	if existing == nil {
		if err := clinicRepo.Create(ctx, clinic); err != nil {
			log.Fatal("Failed to seed clinic:", err)
		}
		log.Printf("Seeded clinic %s (%s)", clinic.Name, clinic.Code)
	} else {
		log.Printf("Clinic %s already present", clinic.Code)
	}

	account := &model.Account{
		Email:      "clinician@example.com",
		Name:       "Demo Clinician",
		ClinicCode: clinic.Code,
	}
	existingAcc, err := accountRepo.GetByEmail(ctx, account.Email)
	if err != nil {
		log.Fatal("Failed to check demo account:", err)
	}
	if existingAcc == nil {
		if err := accountRepo.Create(ctx, account); err != nil {
			log.Fatal("Failed to seed account:", err)
		}
		log.Printf("Seeded account %s", account.Email)
	} else {
		log.Printf("Account %s already present", account.Email)
	}
}
