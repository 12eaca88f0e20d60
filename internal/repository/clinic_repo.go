package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ashankshah/solace/internal/model"
)

type ClinicRepo interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	GetByCode(ctx context.Context, code string) (*model.Clinic, error)
	List(ctx context.Context) ([]*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
	UpdateLayout(ctx context.Context, code string, layout model.RoomLayout) error
	Delete(ctx context.Context, code string) error
}

type clinicRepo struct {
	collection *mongo.Collection
}

func NewClinicRepo(db *mongo.Database) ClinicRepo {
	return &clinicRepo{
		collection: db.Collection("clinics"),
	}
}

func (r *clinicRepo) Create(ctx context.Context, clinic *model.Clinic) error {
	now := time.Now()
	if clinic.CreatedAt.IsZero() {
		clinic.CreatedAt = now
	}
	clinic.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, clinic)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		clinic.ID = oid.Hex()
	}
	return nil
}

func (r *clinicRepo) GetByCode(ctx context.Context, code string) (*model.Clinic, error) {
	var clinic model.Clinic
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&clinic)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepo) List(ctx context.Context) ([]*model.Clinic, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clinics []*model.Clinic
	if err = cursor.All(ctx, &clinics); err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicRepo) Update(ctx context.Context, clinic *model.Clinic) error {
	clinic.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":      clinic.Name,
		"address":   clinic.Address,
		"layout":    clinic.Layout,
		"updatedAt": clinic.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"code": clinic.Code}, update)
	return err
}

func (r *clinicRepo) UpdateLayout(ctx context.Context, code string, layout model.RoomLayout) error {
	update := bson.M{"$set": bson.M{
		"layout":    layout,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"code": code}, update)
	return err
}

func (r *clinicRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"code": code})
	return err
}
