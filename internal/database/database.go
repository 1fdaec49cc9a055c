package database

import (
	"fmt"
	"strings"

	"brevosync/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development and tests
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(
			&models.Store{},
			&models.Subscription{},
			&models.Customer{},
			&models.Setting{},
			&models.ShoppingCartItem{},
			&models.Order{},
			&models.MessageTemplate{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate tables: %w", err)
		}
		return &Database{DB: db}, nil
	}

	// PostgreSQL for production
	db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS stores (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL,
		store_id BIGINT NOT NULL,
		active BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (email, store_id)
	);

	CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT UNIQUE NOT NULL,
		username TEXT,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		country_code TEXT,
		attributes TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS settings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		store_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		value TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE (store_id, name)
	);

	CREATE TABLE IF NOT EXISTS shopping_cart_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		customer_id UUID NOT NULL,
		store_id BIGINT NOT NULL,
		sku TEXT NOT NULL,
		name TEXT,
		image_url TEXT,
		quantity INT DEFAULT 1,
		price DECIMAL(10,2),
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		order_number BIGINT,
		customer_id UUID NOT NULL,
		email TEXT NOT NULL,
		store_id BIGINT NOT NULL,
		status TEXT DEFAULT 'PLACED',
		total DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		items TEXT,
		paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS message_templates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT UNIQUE NOT NULL,
		subject TEXT,
		body TEXT,
		brevo_template_id BIGINT,
		use_brevo BOOLEAN DEFAULT false,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
