// Command devtoken prints a signed access token for local development, so the
// API can be exercised without the identity platform.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
)

func main() {
	userID := flag.String("user", "dev-user", "user id (sub claim)")
	name := flag.String("name", "Utvikler", "display name")
	admin := flag.Bool("admin", false, "issue an admin token")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	role := ""
	if *admin {
		role = auth.RoleAdmin
	}

	token, err := auth.NewJWTManager(secret, *ttl).GenerateAccessToken(*userID, *name, role)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
