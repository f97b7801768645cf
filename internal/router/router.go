package router

import (
	"time"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/config"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/handler"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/middleware"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/service"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	movRepo := repository.NewMovimientoRepository(db)
	reservaRepo := repository.NewReservaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	devolucionRepo := repository.NewDevolucionRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	stockRepo := repository.NewMovimientoStockRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	ledgerSvc := service.NewLedgerService(movRepo, cajaRepo)
	reservaSvc := service.NewReservaService(reservaRepo, movRepo)
	cajaSvc := service.NewCajaService(cajaRepo, movRepo, reservaSvc, cfg, dispatcher)
	transferenciaSvc := service.NewTransferenciaService(movRepo, cajaRepo)
	finanzasSvc := service.NewFinanzasService(movRepo, reservaRepo)
	devolucionSvc := service.NewDevolucionService(ventaRepo, devolucionRepo, productoRepo, stockRepo, movRepo, cajaRepo)
	authSvc := service.NewAuthService(usuarioRepo, cajaSvc, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc, ledgerSvc)
	reservasH := handler.NewReservasHandler(reservaSvc)
	finanzasH := handler.NewFinanzasHandler(finanzasSvc, transferenciaSvc)
	devolucionesH := handler.NewDevolucionesHandler(devolucionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		operador := middleware.RequireRole("cajero", "supervisor", "administrador")
		supervisor := middleware.RequireRole("supervisor", "administrador")

		caja := v1.Group("/caja")
		{
			caja.GET("/estado", operador, cajaH.Estado)
			caja.POST("/abrir", operador, cajaH.Abrir)
			caja.POST("/cerrar", operador, cajaH.Cerrar)
			caja.POST("/movimiento", operador, cajaH.RegistrarMovimiento)
			caja.GET("/movimientos", operador, cajaH.ListarMovimientos)
			caja.GET("/historial", supervisor, cajaH.Historial)
		}

		reservas := v1.Group("/reservas", supervisor)
		{
			reservas.POST("", reservasH.Crear)
			reservas.GET("", reservasH.Listar)
			reservas.POST("/:id/liberar", reservasH.Liberar)
			reservas.POST("/extraer", reservasH.Extraer)
		}

		v1.GET("/finanzas/saldos", supervisor, finanzasH.Saldos)
		v1.POST("/transferencias", supervisor, finanzasH.Transferir)

		v1.POST("/devoluciones", operador, devolucionesH.Registrar)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.POST("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
