package router

import (
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/config"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/handler"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/middleware"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built by the composition root.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client // nil disables caching and the export queue
	Cache   *infra.Cache
	Eventos infra.EventPublisher
	// Cola enqueues export jobs; nil answers 503 on the email export
	Cola        service.Encolador
	SMTPBreaker *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
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
	vendedorRepo := repository.NewVendedorRepository(deps.DB)
	clienteRepo := repository.NewClienteRepository(deps.DB)
	productoRepo := repository.NewProductoRepository(deps.DB)
	curvaRepo := repository.NewCurvaRepository(deps.DB)
	pedidoRepo := repository.NewPedidoRepository(deps.DB)
	userRoleRepo := repository.NewUserRoleRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	accesoSvc := service.NewAccesoService(userRoleRepo)
	vendedorSvc := service.NewVendedorService(vendedorRepo, deps.Cache)
	clienteSvc := service.NewClienteService(clienteRepo, vendedorRepo, deps.Cache)
	productoSvc := service.NewProductoService(productoRepo, accesoSvc, deps.Cache, cfg.CatalogoTTL)
	curvaSvc := service.NewCurvaService(curvaRepo)
	userRoleSvc := service.NewUserRoleService(userRoleRepo, clienteRepo)
	pedidoSvc := service.NewPedidoService(service.PedidoDeps{
		Repo:         pedidoRepo,
		ClienteRepo:  clienteRepo,
		VendedorRepo: vendedorRepo,
		ProductoRepo: productoRepo,
		CurvaRepo:    curvaRepo,
		Acceso:       accesoSvc,
		Eventos:      deps.Eventos,
		Cache:        deps.Cache,
		Empresa:      cfg.NombreEmpresa,
	})
	reporteSvc := service.NewReporteService(pedidoRepo, deps.Cache, cfg.ReportCacheTTL, deps.Cola)

	// ── Handlers ─────────────────────────────────────────────────────────────
	rolesH := handler.NewRolesHandler(userRoleSvc, accesoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	curvasH := handler.NewCurvasHandler(curvaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	vendedoresH := handler.NewVendedoresHandler(vendedorSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.SMTPBreaker))

	// Protected routes: tokens come from the external identity provider
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/me", rolesH.Me)

		v1.GET("/catalogo", productosH.Catalogo)
		v1.GET("/catalogo/:sku", productosH.PorSKU)
		v1.GET("/curvas", curvasH.Listar)

		v1.POST("/pedidos", pedidosH.Crear)
		v1.GET("/pedidos", pedidosH.Listar)
		v1.GET("/pedidos/:id", pedidosH.ObtenerPorID)
		v1.GET("/pedidos/:id/resumen", pedidosH.Resumen)
		v1.GET("/pedidos/:id/pdf", pedidosH.PDF)
	}

	admin := v1.Group("/admin", middleware.RequireAdmin(accesoSvc))
	{
		vend := admin.Group("/vendedores")
		{
			vend.POST("", vendedoresH.Crear)
			vend.GET("", vendedoresH.Listar)
			vend.GET("/:id", vendedoresH.ObtenerPorID)
			vend.PATCH("/:id", vendedoresH.Actualizar)
			vend.DELETE("/:id", vendedoresH.Eliminar)
		}

		cli := admin.Group("/clientes")
		{
			cli.POST("", clientesH.Crear)
			cli.GET("", clientesH.Listar)
			cli.GET("/:id", clientesH.ObtenerPorID)
			cli.PATCH("/:id", clientesH.Actualizar)
			cli.DELETE("/:id", clientesH.Eliminar)
		}

		prods := admin.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PATCH("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		curvas := admin.Group("/curvas")
		{
			curvas.POST("", curvasH.Crear)
			curvas.GET("", curvasH.Listar)
			curvas.GET("/:id", curvasH.ObtenerPorID)
			curvas.PATCH("/:id", curvasH.Actualizar)
			curvas.DELETE("/:id", curvasH.Eliminar)
		}

		roles := admin.Group("/roles")
		{
			roles.POST("", rolesH.Crear)
			roles.GET("", rolesH.Listar)
			roles.GET("/:id", rolesH.ObtenerPorID)
			roles.PATCH("/:id", rolesH.Actualizar)
			roles.DELETE("/:id", rolesH.Eliminar)
		}

		admin.PATCH("/pedidos/:id", pedidosH.Actualizar)
		admin.DELETE("/pedidos/:id", pedidosH.Eliminar)

		rep := admin.Group("/reportes")
		{
			rep.GET("/estadisticas", reportesH.Estadisticas)
			rep.GET("/exportar", middleware.UserRateLimiter(30, time.Hour), reportesH.Exportar)
			rep.POST("/exportar/email", middleware.UserRateLimiter(10, time.Hour), reportesH.ExportarEmail)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
