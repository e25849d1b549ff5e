package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/auth"
	"github.com/pathshala/backend/internal/infrastructure/config"
	"github.com/pathshala/backend/internal/interfaces/http/handler"
	"github.com/pathshala/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Student      *handler.StudentHandler
	Centre       *handler.CentreHandler
	Catalog      *handler.CatalogHandler
	Admission    *handler.AdmissionHandler
	Payment      *handler.PaymentHandler
	Cheque       *handler.ChequeHandler
	CashTransfer *handler.CashTransferHandler
}

// New builds the gin engine with the full middleware chain and all routes
func New(
	cfg *config.Config,
	jwtService *auth.JWTService,
	idempotency shared.IdempotencyStore,
	h Handlers,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtService, logger))
	api.Use(middleware.Idempotency(idempotency, cfg.Idempotency.TTL, logger))

	students := api.Group("/students")
	{
		students.POST("", h.Student.Register)
		students.GET("/:id", h.Student.Get)
		students.POST("/:id/deactivate", h.Student.Deactivate)
		students.POST("/:id/reactivate", h.Student.Reactivate)
	}

	centres := api.Group("/centres")
	{
		centres.POST("", h.Centre.Create)
		centres.GET("", h.Centre.List)
		centres.GET("/:id", h.Centre.Get)
		centres.PUT("/:id/transfer-password", h.Centre.SetTransferPassword)
		centres.POST("/:id/sales-targets", h.Centre.SetSalesTarget)
		centres.GET("/:id/sales-targets/current", h.Centre.GetSalesTarget)
		centres.GET("/:id/cash-on-hand", h.CashTransfer.CashOnHand)
		centres.GET("/:id/cash-transfers", h.CashTransfer.ListByCentre)
		centres.GET("/:id/students", h.Student.ListByCentre)
		centres.GET("/:id/admissions", h.Admission.ListByCentre)
	}

	courses := api.Group("/courses")
	{
		courses.POST("", h.Catalog.CreateCourse)
		courses.GET("", h.Catalog.ListCourses)
		courses.PUT("/:id/fees", h.Catalog.UpdateCourseFees)
	}

	examTags := api.Group("/exam-tags")
	{
		examTags.POST("", h.Catalog.CreateExamTag)
		examTags.GET("", h.Catalog.ListExamTags)
	}

	admissions := api.Group("/admissions")
	{
		admissions.POST("", h.Admission.Create)
		admissions.GET("/:id", h.Admission.Get)
		admissions.PUT("/:id/installments/:number/payment", h.Admission.RecordPayment)
		admissions.GET("/:id/payments", h.Payment.List)
		admissions.PUT("/:id/divide-installments", h.Admission.DivideInstallments)
		admissions.POST("/:id/transfer", h.Admission.TransferCourse)
		admissions.POST("/:id/adjust-fees", h.Admission.AdjustFees)
		admissions.POST("/:id/monthly-bill", h.Admission.GenerateMonthlyBill)
		admissions.POST("/:id/monthly-bill/pay", h.Admission.PayMonthlyBill)
	}

	// Bill issuance keys on the admission; :id is the admission ID here.
	api.POST("/payments/:id/installments/:number/bill", h.Payment.GenerateBill)

	cheques := api.Group("/cheques")
	{
		cheques.POST("/:id/clear", h.Cheque.Clear)
		cheques.POST("/:id/reject", h.Cheque.Reject)
		cheques.POST("/:id/cancel", h.Cheque.Cancel)
	}

	transfers := api.Group("/cash-transfers")
	{
		transfers.POST("", h.CashTransfer.Initiate)
		transfers.POST("/:id/confirm-receive", h.CashTransfer.ConfirmReceive)
		transfers.POST("/:id/reject", h.CashTransfer.Reject)
		transfers.POST("/:id/cancel", h.CashTransfer.Cancel)
		transfers.PUT("/:id/receipt", h.CashTransfer.UploadReceipt)
	}

	api.PUT("/bills/:billId/receipt", h.Payment.ArchiveReceipt)

	return engine
}
