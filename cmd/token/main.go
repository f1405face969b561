// Command token mints a session JWT for local development. In production the
// host application issues sessions.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kiwari-pos/ordering/internal/auth"
	"github.com/kiwari-pos/ordering/internal/config"
	"github.com/sirupsen/logrus"
)

func main() {
	user := flag.String("user", "", "User ID (random when empty)")
	ttl := flag.Duration("ttl", auth.DefaultTTL, "Token lifetime")
	flag.Parse()

	cfg := config.Load()

	userID := uuid.New()
	if *user != "" {
		id, err := uuid.Parse(*user)
		if err != nil {
			logrus.WithError(err).Fatal("invalid user id")
		}
		userID = id
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, userID, *ttl)
	if err != nil {
		logrus.WithError(err).Fatal("generate token")
	}

	fmt.Fprintf(os.Stderr, "user_id=%s\n", userID)
	fmt.Println(token)
}
