// Grants the admin role to an identity-provider user.
// Uso: go run ./cmd/seedadmin -user <uuid>
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/config"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	userFlag := flag.String("user", "", "user id (token subject) to promote")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("-user must be a uuid")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()
	var existing model.UserRole
	err = db.WithContext(ctx).Where("user_id = ? AND role = ?", userID, model.RolAdmin).First(&existing).Error
	switch {
	case err == nil:
		log.Info().Str("user_id", userID.String()).Msg("user is already admin")
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Fatal().Err(err).Msg("lookup failed")
	}

	if err := db.WithContext(ctx).Create(&model.UserRole{UserID: userID, Role: model.RolAdmin}).Error; err != nil {
		log.Fatal().Err(err).Msg("insert failed")
	}
	log.Info().Str("user_id", userID.String()).Msg("admin role granted")
}
