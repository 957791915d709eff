package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/fashionstore/fashion-store-backend/internal/address"
	"github.com/fashionstore/fashion-store-backend/internal/auth"
	"github.com/fashionstore/fashion-store-backend/internal/checkout"
	"github.com/fashionstore/fashion-store-backend/internal/config"
	"github.com/fashionstore/fashion-store-backend/internal/inventory"
	"github.com/fashionstore/fashion-store-backend/internal/notification"
	"github.com/fashionstore/fashion-store-backend/internal/order"
	"github.com/fashionstore/fashion-store-backend/internal/ordernumber"
	"github.com/fashionstore/fashion-store-backend/internal/payment"
	"github.com/fashionstore/fashion-store-backend/internal/product"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	// notification sink: kafka when brokers are configured, log-only otherwise
	var publisher notification.Publisher = notification.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.NotificationTopic)
		defer kp.Close()
		publisher = kp
	}
	sink := notification.NewSink(publisher)

	orderService := order.NewService(order.NewPostgresRepository(db), sink)
	orderHandler := order.NewHandler(orderService)

	inventoryService := inventory.NewService(inventory.NewPostgresRepository(db))
	inventoryHandler := inventory.NewHandler(inventoryService)

	numbers := ordernumber.NewGenerator(ordernumber.NewPostgresRepository(db))

	checkoutService := checkout.NewService(orderService, inventoryService, numbers, sink)
	checkoutHandler := checkout.NewHandler(checkoutService)

	razorpay := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	paymentHandler := payment.NewHandler(razorpay, orderService)

	productHandler := product.NewHandler(product.NewService(product.NewPostgresRepository(db)))

	// public storefront routes
	productHandler.RegisterPublicRoutes(app)
	checkoutHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)

	// admin console routes; registered before the customer group so the
	// customer JWT middleware never sees /api/v1/admin traffic
	admin := app.Group("/api/v1/admin", auth.Middleware(cfg.AdminJWTSecret))
	orderHandler.RegisterAdminRoutes(admin)
	inventoryHandler.RegisterAdminRoutes(admin)

	// customer routes require a token from the identity provider
	customer := app.Group("/api/v1", auth.Middleware(cfg.JWTSecret))
	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))
	addressHandler.RegisterProtectedRoutes(customer)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

// ensureSchema creates the tables this service owns.
func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT UNIQUE,
			description TEXT,
			price NUMERIC NOT NULL DEFAULT 0,
			category TEXT,
			image_url TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS product_variants (
			id SERIAL PRIMARY KEY,
			product_id TEXT NOT NULL,
			size TEXT NOT NULL,
			stock_quantity INT NOT NULL DEFAULT 0,
			UNIQUE (product_id, size)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT,
			shipping_address JSONB NOT NULL,
			subtotal NUMERIC NOT NULL,
			shipping_charge NUMERIC NOT NULL DEFAULT 0,
			total NUMERIC NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			status TEXT NOT NULL DEFAULT 'pending',
			razorpay_order_id TEXT,
			razorpay_payment_id TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			product_id TEXT,
			product_name TEXT NOT NULL,
			product_image TEXT,
			size TEXT NOT NULL,
			quantity INT NOT NULL,
			price NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_counters (
			day DATE PRIMARY KEY,
			counter INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS saved_addresses (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			label TEXT,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			address_line1 TEXT NOT NULL,
			address_line2 TEXT,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			pincode TEXT NOT NULL,
			landmark TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT,
			updated_at TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
