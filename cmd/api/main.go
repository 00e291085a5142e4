package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/internal/domain/repository"
	"github.com/jhoicas/recepcion-activa/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/recepcion-activa/internal/infrastructure/pdf"
	"github.com/jhoicas/recepcion-activa/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/recepcion-activa/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/recepcion-activa/internal/interfaces/http"
	"github.com/jhoicas/recepcion-activa/pkg/config"
	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		invoiceRepo repository.InvoiceRepository
		txRunner    billing.TxRunner
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := postgres.MigrateUp(cfg.DB.ConnectionString(), cfg.DB.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	default:
		log.Warn().Msg("almacén en memoria: las facturas se pierden al reiniciar")
		repo := memory.NewInvoiceRepository()
		invoiceRepo = repo
		txRunner = memory.NewTxRunner(repo)
	}

	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, txRunner, billing.Defaults{
		Serie:  cfg.Facturacion.Serie,
		Moneda: cfg.Facturacion.Moneda,
	}, log)
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, infrapdf.NewMarotoPDFGenerator())
	registerUC := billing.NewRegisterUseCase(invoiceRepo, infraxlsx.NewRegisterExporter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "RecepcionActiva API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:  invoiceUC,
		InvoicePDF: invoicePDFUC,
		Register:   registerUC,
		JWTSecret:  cfg.JWT.Secret,
		Logger:     log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
