package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/payroll-engine-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/payroll-engine-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
	settingsService "github.com/cmlabs-hris/payroll-engine-go/internal/service/settings"
	timesheetService "github.com/cmlabs-hris/payroll-engine-go/internal/service/timesheet"
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

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	payrollPeriodRepo := postgresql.NewPayrollPeriodRepository(db)
	payStubRepo := postgresql.NewPayStubRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	settingsSvc := settingsService.NewService(settingsRepo, cfg)
	notificationSvc := notificationService.NewService(notificationRepo)
	balanceSvc := leaveService.NewBalanceService(leaveBalanceRepo, leaveRequestRepo, settingsSvc)
	requestSvc := leaveService.NewRequestService(db, leaveRequestRepo, employeeRepo, balanceSvc, notificationSvc)
	accrualSvc := leaveService.NewAccrualService(balanceSvc, employeeRepo)
	timesheetSvc := timesheetService.NewService(timesheetRepo, employeeRepo, payrollPeriodRepo, settingsSvc, notificationSvc)
	payrollSvc := payrollService.NewService(db, payrollPeriodRepo, payStubRepo, employeeRepo, timesheetRepo, settingsSvc, notificationSvc, cfg.App.PayrollWorkers)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("leave-accrual", cfg.App.AccrualInterval, accrualSvc.RunMonthlyAccrual)
	scheduler.AddJob("carry-forward", cfg.App.AccrualInterval, accrualSvc.RunCarryForward)
	scheduler.Start()
	defer scheduler.Stop()

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)

	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	leaveHandler := appHTTP.NewLeaveHandler(requestSvc, balanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		tokenAuth,
		cfg.App.Env,
		timesheetHandler,
		leaveHandler,
		payrollHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
