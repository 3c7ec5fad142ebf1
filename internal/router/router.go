package router

import (
	"context"
	"net/http"
	"time"

	"employee/backend/foundation/web"
	"employee/backend/internal/auth"
	"employee/backend/internal/middleware"
	"employee/backend/internal/pkg/repository/postgresql"
	"employee/backend/internal/repository/postgres/department"
	"employee/backend/internal/repository/postgres/employee"
	"employee/backend/internal/repository/postgres/position"
	"employee/backend/internal/repository/postgres/user"
	"employee/backend/internal/repository/redis/attempts"
	"employee/backend/internal/service"
	"employee/backend/internal/service/account"
	employeeService "employee/backend/internal/service/employee"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	department_controller "employee/backend/internal/controller/http/v1/department"
	employee_controller "employee/backend/internal/controller/http/v1/employee"
	file_controller "employee/backend/internal/controller/http/v1/file"
	user_controller "employee/backend/internal/controller/http/v1/user"
)

type Config struct {
	ProtectEmployees bool
	CleanupUploads   bool
	LoginMaxAttempts int
	LoginWindow      time.Duration
	AllowedOrigins   []string
}

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	auth       *auth.Auth
	uploader   *service.Uploader
	log        *zap.Logger
	cfg        Config
}

// NewRouter wires the route table. redisDB may be nil, which turns login
// throttling off.
func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	auth *auth.Auth,
	uploader *service.Uploader,
	log *zap.Logger,
	cfg Config,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		auth,
		uploader,
		log,
		cfg,
	}
}

func (r Router) Init() {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Logger(r.log), middleware.CORS(r.cfg.AllowedOrigins))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	employeePostgres := employee.NewRepository(r.postgresDB)
	departmentPostgres := department.NewRepository(r.postgresDB)
	positionPostgres := position.NewRepository(r.postgresDB)

	// - redis
	var loginAttempts account.Attempts
	if r.redisDB != nil {
		loginAttempts = attempts.NewRepository(r.redisDB, r.cfg.LoginWindow)
	}

	// service
	accountService := account.NewService(userPostgres, r.auth, loginAttempts, r.cfg.LoginMaxAttempts, r.log)
	employeeSvc := employeeService.NewService(employeePostgres, r.uploader, r.imageHooks(), r.log)

	// controller
	userController := user_controller.NewController(accountService)
	employeeController := employee_controller.NewController(employeeSvc)
	departmentController := department_controller.NewController(departmentPostgres, positionPostgres)
	fileController := file_controller.NewController(r.uploader.Dir())

	r.Get("/health", r.health)

	r.GET(service.UploadURLPrefix+"/*filepath", fileController.File)
	r.HEAD(service.UploadURLPrefix+"/*filepath", fileController.File)

	// #user
	r.Post("/api/v1/user/signup", userController.Signup)
	r.Post("/api/v1/user/login", userController.Login)

	// #employee
	protect := middleware.Optional(r.cfg.ProtectEmployees, middleware.Authenticate(r.auth))

	r.Get("/api/v1/emp/employees", employeeController.GetList, protect)
	r.Get("/api/v1/emp/employees/search", employeeController.Search, protect)
	r.Get("/api/v1/emp/employees/export", employeeController.Export, protect)
	r.Get("/api/v1/emp/employees/badges", employeeController.Badges, protect)
	r.Get("/api/v1/emp/employees/:id", employeeController.GetDetailByID, protect)
	r.Get("/api/v1/emp/employees/:id/qrcode", employeeController.QRCode, protect)
	r.Post("/api/v1/emp/employees", employeeController.Create, protect)
	r.Put("/api/v1/emp/employees/:id", employeeController.Update, protect)
	r.Delete("/api/v1/emp/employees/:id", employeeController.Delete, protect)

	// #department, #position
	r.Get("/api/v1/emp/departments", departmentController.GetDepartments, protect)
	r.Get("/api/v1/emp/positions", departmentController.GetPositions, protect)
}

func (r Router) health(c *web.Context) error {
	ctx, cancel := context.WithTimeout(c.Ctx, 2*time.Second)
	defer cancel()

	if err := r.postgresDB.Ping(ctx); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{"status": true}, http.StatusOK)
}

// imageHooks removes superseded and released uploads when cleanup is on.
func (r Router) imageHooks() employeeService.Hooks {
	if !r.cfg.CleanupUploads {
		return employeeService.Hooks{}
	}

	remove := func(_ context.Context, path string) {
		if err := r.uploader.Remove(path); err != nil {
			r.log.Warn("removing upload", zap.String("path", path), zap.Error(err))
		}
	}

	return employeeService.Hooks{
		OnImageReplaced: remove,
		OnImageReleased: remove,
	}
}
