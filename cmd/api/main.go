package main

import (
	"fmt"
	"net/http"

	"github.com/storelink/storeops-backend-go/internal/config"
	appHTTP "github.com/storelink/storeops-backend-go/internal/handler/http"
	"github.com/storelink/storeops-backend-go/internal/pkg/database"
	"github.com/storelink/storeops-backend-go/internal/pkg/jwt"
	"github.com/storelink/storeops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/storelink/storeops-backend-go/internal/service/attendance"
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

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	storeRepo := postgresql.NewStoreRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, storeRepo, cfg.Attendance)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	storeHandler := appHTTP.NewStoreHandler(storeRepo)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, storeHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
