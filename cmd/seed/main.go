package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/mentorflow/mentorflow/internal/config"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/repository"
	"github.com/mentorflow/mentorflow/internal/seed"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var internEmail string

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random interns, 2: insert demo projects)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.StringVar(&internEmail, "intern", "", "email of the intern the demo projects are assigned to (defaults to the first intern)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("the number of interns must be positive")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("failed to hash seed password", slog.String("error", err.Error()))
			return
		}
		cnt := seed.RandomInterns(repo, n, string(hash), cfg.Email.UserDomain)
		slog.Info("interns inserted", slog.Int("count", cnt))
	case 2:
		intern, err := findIntern(repo, internEmail)
		if err != nil {
			slog.Error("failed to find an intern", slog.String("error", err.Error()))
			return
		}
		projects, err := seed.DemoProjects(repo, cfg.InitialSupervisor.Email, intern, time.Now())
		if err != nil {
			slog.Error("failed to insert demo projects", slog.String("error", err.Error()))
		}
		slog.Info("demo projects inserted", slog.Int("count", len(projects)), slog.String("intern", intern.Email))
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}

func findIntern(repo *repository.Repository, email string) (*domain.User, error) {
	if email != "" {
		user, err := repo.GetProfileByEmail(email)
		if err != nil {
			return nil, err
		}
		if user.Role() != domain.RoleIntern {
			return nil, errors.New(email + " is not an intern")
		}
		return user, nil
	}

	interns, err := repo.GetAllProfiles(domain.RoleIntern)
	if err != nil {
		return nil, err
	}
	if len(interns) == 0 {
		return nil, errors.New("no interns yet, run -op 1 first")
	}
	return interns[0], nil
}
