// Command operator creates a back-office operator account.
//
//	OPERATOR_PASSWORD=... go run ./cmd/operator -email ops@example.com -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/config"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/jwt"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/postgresql"
	authService "github.com/vt-ctyhp/attendance-system-sub004/internal/service/auth"
)

func main() {
	email := flag.String("email", "", "operator email")
	role := flag.String("role", string(auth.RoleViewer), "admin, manager or viewer")
	flag.Parse()

	if err := run(*email, auth.Role(*role), os.Getenv("OPERATOR_PASSWORD")); err != nil {
		slog.Error("create operator failed", "error", err)
		os.Exit(1)
	}
}

func run(email string, role auth.Role, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 1, MinConns: 1})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	svc := authService.NewAuthService(
		postgresql.NewOperatorRepository(db),
		jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration),
	)
	operator, err := svc.CreateOperator(ctx, auth.CreateOperatorRequest{
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	slog.Info("operator created", "id", operator.ID, "email", operator.Email, "role", operator.Role)
	return nil
}
