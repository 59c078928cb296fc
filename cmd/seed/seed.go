package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nulzo/model-capability-api/internal/cli"
	"github.com/nulzo/model-capability-api/internal/store/model"
	"github.com/nulzo/model-capability-api/internal/store/sqlite"
)

const keyPrefix = "mcap-"

func main() {
	dsn := flag.String("dsn", "file:capability.db?_foreign_keys=on", "sqlite DSN")
	name := flag.String("name", "Local Dev Key", "display name for the key")
	flag.Parse()

	repo, err := sqlite.NewSQLiteStorage(*dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	rawKey, err := generateKey()
	if err != nil {
		log.Fatal(err)
	}

	hash := sha256.Sum256([]byte(rawKey))
	hashedHex := hex.EncodeToString(hash[:])

	key := &model.APIKey{
		ID:        uuid.New().String(),
		Name:      *name,
		KeyHash:   hashedHex,
		KeyPrefix: rawKey[:len(keyPrefix)+4],
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := repo.APIKeys().Create(ctx, key); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s %s\n", cli.CheckMark(), cli.Style("Successfully seeded database!", cli.Green))
	fmt.Printf("API Key: %s\n", cli.Style(rawKey, cli.Bold))
	fmt.Printf("Use this key in your Authorization header: Bearer %s\n", rawKey)
	fmt.Printf("%s the raw key is not stored; only its hash is kept\n", cli.Style("note:", cli.Yellow))
}

// generateKey returns a fresh random key in the mcap- format.
func generateKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return keyPrefix + hex.EncodeToString(buf), nil
}
