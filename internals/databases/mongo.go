package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trainingku_backend/internals/configs"
)

var (
	MongoClient *mongo.Client
	Mongo       *mongo.Database
)

// ConnectMongo dipakai untuk log audit reset subtest. Opsional.
func ConnectMongo() {
	uri := configs.App.MongoURI
	if uri == "" {
		log.Println("⚠️ MONGO_URI kosong, log reset disimpan di PostgreSQL")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Printf("❌ Gagal konek MongoDB: %v", err)
		return
	}
	if err := cli.Ping(ctx, nil); err != nil {
		log.Printf("❌ Gagal ping MongoDB: %v", err)
		_ = cli.Disconnect(context.Background())
		return
	}

	MongoClient = cli
	Mongo = cli.Database(configs.App.MongoDB)
	log.Println("✅ MongoDB connected.")
}

func CloseMongo() {
	if MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = MongoClient.Disconnect(ctx)
}
