package router

import (
	"time"

	"github.com/mncort/forestalApp-sub000/internal/config"
	"github.com/mncort/forestalApp-sub000/internal/handler"
	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/middleware"
	"github.com/mncort/forestalApp-sub000/internal/repository"
	"github.com/mncort/forestalApp-sub000/internal/service"
	"github.com/mncort/forestalApp-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← RecordStore/Redis
func New(cfg *config.Config, store *infra.RecordStore, rdb *redis.Client, blobs *infra.BlobStore, dispatcher *worker.Dispatcher) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	pdfRenderer := infra.NewPresupuestoPDF(cfg.NombreNegocio)

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(store)
	clienteRepo := repository.NewClienteRepository(store)
	costoRepo := repository.NewCostoRepository(store)
	presupuestoRepo := repository.NewPresupuestoRepository(store)

	// ── Services ─────────────────────────────────────────────────────────────
	costoSvc := service.NewCostoService(costoRepo, rdb)
	precioSvc := service.NewPrecioService(productoRepo, costoSvc)
	presupuestoSvc := service.NewPresupuestoService(presupuestoRepo, clienteRepo, precioSvc, pdfRenderer, blobs, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoRepo)
	costosH := handler.NewCostosHandler(costoSvc)
	presupuestosH := handler.NewPresupuestosHandler(presupuestoSvc)
	consultaH := handler.NewConsultaPreciosHandler(precioSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(store, rdb))

	// Price check — read-only, cached
	r.GET("/v1/precio/:producto_id", consultaH.GetPrecio)

	v1 := r.Group("/v1")
	{
		v1.GET("/productos", productosH.List)
		v1.GET("/productos/:id", productosH.Get)
		v1.POST("/productos/:id/costos", costosH.AsignarCosto)
		v1.GET("/productos/:id/costos", costosH.ListarCostos)

		v1.POST("/presupuestos", presupuestosH.Crear)
		v1.GET("/presupuestos", presupuestosH.Listar)
		v1.GET("/presupuestos/:id", presupuestosH.Obtener)
		v1.POST("/presupuestos/:id/estado", presupuestosH.CambiarEstado)
		v1.POST("/presupuestos/:id/items", presupuestosH.AgregarItem)
		v1.POST("/presupuestos/:id/cambios", presupuestosH.ConfirmarCambios)
		v1.GET("/presupuestos/:id/pdf", presupuestosH.DescargarPDF)

		v1.PATCH("/items/:id", presupuestosH.ActualizarItem)
		v1.DELETE("/items/:id", presupuestosH.EliminarItem)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
