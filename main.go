// @title           AUMA DZ Quotation API
// @version         1.0
// @description     RFQ intake, actuator model matching and quotation issuing for valve automation sales.

// @contact.name   API Support

// @host      localhost:9000

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/rsahana30/AUMA-DZ/docs"
	"github.com/rsahana30/AUMA-DZ/handlers"
	"github.com/rsahana30/AUMA-DZ/middleware"
	"github.com/rsahana30/AUMA-DZ/services"
	"github.com/rsahana30/AUMA-DZ/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, strings.Split(extra, ",")...)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Disposition", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

var cronRunning int32

func safeGo(
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	fn func(context.Context) error,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("%s failed: %v", name, err)
		} else {
			log.Printf("%s completed successfully", name)
		}
	}()
}

// ginPathToSwaggerPath converts Gin path params :param to Swagger {param}
var ginPathParamRe = regexp.MustCompile(`:([^/]+)`)

func ginPathToSwaggerPath(path string) string {
	return ginPathParamRe.ReplaceAllString(path, "{$1}")
}

var swaggerDefinitions = map[string]interface{}{
	"RFQCreated": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"rfqNo":   map[string]interface{}{"type": "string", "example": "RFQ202609010001"},
			"rows":    map[string]interface{}{"type": "integer", "example": 3},
			"message": map[string]interface{}{"type": "string", "example": "RFQ created"},
		},
	},
	"QuotationCreated": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"quotationNo": map[string]interface{}{"type": "string", "example": "Q202609010001"},
			"rfqNo":       map[string]interface{}{"type": "string", "example": "RFQ202609010001"},
			"grandTotal":  map[string]interface{}{"type": "number", "example": 184000},
			"expiryDate":  map[string]interface{}{"type": "string", "format": "date-time"},
		},
	},
	"ApiRequest": map[string]interface{}{
		"type":        "object",
		"description": "Request body (fields vary by endpoint)",
	},
	"Error": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"error": map[string]interface{}{"type": "string"},
		},
	},
}

// buildSwaggerFromRoutes returns a handler that serves Swagger 2.0 JSON with
// all registered routes, so the UI never drifts from the router.
func buildSwaggerFromRoutes(engine *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		paths := make(map[string]interface{})
		for _, route := range engine.Routes() {
			if strings.HasPrefix(route.Path, "/swagger") {
				continue
			}
			path := ginPathToSwaggerPath(route.Path)
			if paths[path] == nil {
				paths[path] = make(map[string]interface{})
			}
			method := strings.ToLower(route.Method)

			op := map[string]interface{}{
				"summary":  route.Method + " " + route.Path,
				"tags":     []string{"API"},
				"produces": []string{"application/json"},
				"responses": map[string]interface{}{
					"200": map[string]interface{}{"description": "Success"},
					"400": map[string]interface{}{
						"description": "Bad Request",
						"schema":      map[string]interface{}{"$ref": "#/definitions/Error"},
					},
					"500": map[string]interface{}{
						"description": "Internal Server Error",
						"schema":      map[string]interface{}{"$ref": "#/definitions/Error"},
					},
				},
			}
			if method == "post" || method == "put" || method == "patch" {
				op["consumes"] = []string{"application/json"}
				op["parameters"] = []map[string]interface{}{
					{
						"in":       "body",
						"name":     "body",
						"required": true,
						"schema":   map[string]interface{}{"$ref": "#/definitions/ApiRequest"},
					},
				}
			}
			(paths[path].(map[string]interface{}))[method] = op
		}

		doc := map[string]interface{}{
			"swagger":     "2.0",
			"definitions": swaggerDefinitions,
			"info": map[string]interface{}{
				"title":       "AUMA DZ Quotation API",
				"description": "RFQ intake, actuator model matching and quotation issuing.",
				"version":     "1.0",
			},
			"host":     c.Request.Host,
			"basePath": "/",
			"schemes":  []string{"http", "https"},
			"paths":    paths,
		}
		c.Header("Content-Type", "application/json")
		c.JSON(http.StatusOK, doc)
	}
}

func main() {
	db := storage.InitDB()
	if err := storage.EnsureCoreSchema(db); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}
	gdb := storage.InitGormDB()

	matcher := services.NewMatcherService(db)

	quoteDir := os.Getenv("QUOTE_DIR")
	if quoteDir == "" {
		quoteDir = "quotes"
	}
	renderer, err := services.NewPDFRenderer(quoteDir)
	if err != nil {
		log.Fatalf("Quotation directory setup failed: %v", err)
	}
	quotations := services.NewQuotationService(db, renderer)

	// Daily maintenance: drop stale sessions and PDFs whose quotation row
	// never committed.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err = c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		var wg sync.WaitGroup

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(db)
		})

		safeGo(ctx, &wg, "PurgeOrphanArtifacts", func(ctx context.Context) error {
			_, err := renderer.PurgeOrphanArtifacts(func(quotationNo string) bool {
				var exists bool
				err := db.QueryRowContext(ctx,
					`SELECT EXISTS (SELECT 1 FROM quotations WHERE quotation_no = $1)`,
					quotationNo).Scan(&exists)
				if err != nil {
					// Keep the file when in doubt.
					return true
				}
				return exists
			})
			return err
		})

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	catalogCache := middleware.NewCatalogCache(5 * time.Minute)
	flushCatalog := func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() < 300 {
			catalogCache.Invalidate()
		}
	}
	heavyLimit := middleware.RateLimit(rate.Limit(2), 5)

	auth := handlers.RequireSession(db)

	// ==================== 1. AUTH & SESSION ====================
	r.POST("/api/signup", handlers.Signup(db))
	r.POST("/api/login", handlers.Login(db))
	r.POST("/api/logout", handlers.Logout(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.GET("/api/me", handlers.CurrentUser(db))

	// ==================== 2. RFQ ====================
	r.POST("/api/rfq", auth, handlers.UploadRFQ(db))
	r.GET("/api/rfqs", handlers.GetRFQs(db))
	r.GET("/api/rfq-details/:rfqNo", handlers.GetRFQDetails(db))
	r.GET("/api/rfqs/:rfqNo/export", handlers.ExportRFQ(db))
	r.GET("/api/customers", handlers.GetCustomers(db))
	r.PUT("/api/update-valve-row/:id", auth, handlers.UpdateValveRow(db, matcher))

	// ==================== 3. MODEL MATCHING ====================
	r.POST("/api/get-matching-models", handlers.GetMatchingModels(matcher))
	r.GET("/api/select-model/:rfqNo", handlers.SelectModelDefaults(db))

	// ==================== 4. QUOTATIONS ====================
	r.POST("/api/quotations/:rfqNo", auth, heavyLimit, handlers.CreateQuotation(quotations))
	r.GET("/api/quotation-preview/:rfqNo", handlers.PreviewQuotation(quotations))
	r.GET("/api/quotation/:quotationNo/pdf", handlers.GetQuotationPDF(quotations))
	r.GET("/api/quotation/:quotationNo/qr", handlers.GetQuotationQR(quotations))

	// ==================== 5. CATALOG ENTRY ====================
	r.POST("/api/save-partturn", auth, flushCatalog, handlers.SavePartturnModel(gdb))
	r.POST("/api/save-multiturn", auth, flushCatalog, handlers.SaveMultiturnModel(gdb))
	r.POST("/api/save-partturn-gearbox", auth, flushCatalog, handlers.SavePartturnGearbox(gdb))
	r.POST("/api/save-multiturn-gearbox", auth, flushCatalog, handlers.SaveMultiturnGearbox(gdb))
	r.POST("/api/save-multiturn-actuator", auth, flushCatalog, handlers.SaveMultiturnActuator(gdb))
	r.GET("/api/partturn-gearboxes", catalogCache.Handler(), handlers.ListPartturnGearboxes(gdb))
	r.GET("/api/multiturn-gearboxes", catalogCache.Handler(), handlers.ListMultiturnGearboxes(gdb))
	r.GET("/api/multiturn-actuators", catalogCache.Handler(), handlers.ListMultiturnActuators(gdb))

	// ==================== 6. CATALOG IMPORT / EXPORT ====================
	r.POST("/api/upload-partturn-gearbox", auth, heavyLimit, flushCatalog, handlers.ImportPartturnGearbox(gdb))
	r.POST("/api/upload-multiturn-gearbox", auth, heavyLimit, flushCatalog, handlers.ImportMultiturnGearbox(gdb))
	r.POST("/api/upload-multiturn-actuator", auth, heavyLimit, flushCatalog, handlers.ImportMultiturnActuator(gdb))
	r.GET("/api/export-partturn-gearbox", handlers.ExportPartturnGearbox(gdb))
	r.GET("/api/export-multiturn-gearbox", handlers.ExportMultiturnGearbox(gdb))
	r.GET("/api/export-multiturn-actuator", handlers.ExportMultiturnActuator(gdb))

	// ==================== 7. SWAGGER ====================
	r.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			doc, err := swag.ReadDoc("swagger")
			if err == nil && strings.Contains(doc, `"/api/`) {
				c.Header("Content-Type", "application/json")
				c.String(http.StatusOK, doc)
				return
			}
			buildSwaggerFromRoutes(r)(c)
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"))(c)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
