package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/presenzelab/presenze-backend-go/internal/config"
	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	appHTTP "github.com/presenzelab/presenze-backend-go/internal/handler/http"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/clock"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/database"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
	pkgredis "github.com/presenzelab/presenze-backend-go/internal/pkg/redis"
	"github.com/presenzelab/presenze-backend-go/internal/repository/postgresql"
	redisRepo "github.com/presenzelab/presenze-backend-go/internal/repository/redis"
	approvalService "github.com/presenzelab/presenze-backend-go/internal/service/approval"
	reportService "github.com/presenzelab/presenze-backend-go/internal/service/report"
	statisticsService "github.com/presenzelab/presenze-backend-go/internal/service/statistics"
	timbraturaService "github.com/presenzelab/presenze-backend-go/internal/service/timbratura"
	tokenService "github.com/presenzelab/presenze-backend-go/internal/service/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	timbraturaRepo := postgresql.NewTimbraturaRepository(db)
	approvalRepo := postgresql.NewApprovalRequestRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)

	var tokenRepo punchtoken.PunchTokenRepository
	switch cfg.Punch.TokenStore {
	case "postgres":
		tokenRepo = postgresql.NewPunchTokenRepository(db)
	case "redis":
		redisClient, err := pkgredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		tokenRepo = redisRepo.NewPunchTokenRepository(redisClient)
	default:
		log.Fatal("Unsupported token store: ", cfg.Punch.TokenStore)
	}

	clk := clock.System()
	verifier := identity.NewVerifier(cfg.Auth.JWTSecret)

	tokenSvc := tokenService.NewTokenService(tokenRepo, clk, cfg.Punch.TokenTTL)
	timbraturaSvc := timbraturaService.NewTimbraturaService(timbraturaRepo, shiftRepo, tokenSvc, postgresql.NewTransactor(db), clk)
	approvalSvc := approvalService.NewApprovalService(approvalRepo, timbraturaSvc, clk)
	statisticsSvc := statisticsService.NewStatisticsService(timbraturaRepo, shiftRepo)
	reportSvc := reportService.NewReportService(timbraturaRepo, userRepo)

	timbraturaHandler := appHTTP.NewTimbraturaHandler(timbraturaSvc)
	tokenHandler := appHTTP.NewTokenHandler(tokenSvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	reportHandler := appHTTP.NewReportHandler(statisticsSvc, reportSvc)

	router := appHTTP.NewRouter(
		verifier,
		timbraturaHandler,
		tokenHandler,
		approvalHandler,
		reportHandler,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
