package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"cafehub/internal/config"
	"cafehub/internal/logger"
	"cafehub/internal/models"
)

type MySQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

// buildDSN sets clientFoundRows so RowsAffected counts matched rows, not
// changed rows. The update paths treat 0 affected rows as a missing record,
// which a no-op update (an idempotent retry) would otherwise trigger.
func buildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

func NewMySQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*MySQLStore, error) {
	log.LogDatabase("CONNECT", "mysql", fmt.Sprintf("Connecting to MySQL at %s:%s", cfg.Host, cfg.Port))

	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		log.Error("DATABASE", "Failed to open MySQL connection: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		log.Error("DATABASE", "Failed to ping MySQL: "+err.Error())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &MySQLStore{db: db, log: log}

	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "mysql", "MySQL connection established and tables initialized")
	return store, nil
}

func (s *MySQLStore) initTables() error {
	s.log.LogDatabase("MIGRATE", "mysql", "Creating tables if not exist")

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(32),
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL,
			cafe_ids JSON,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login TIMESTAMP NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE INDEX idx_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS cafes (
			id VARCHAR(64) PRIMARY KEY,
			owner_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			phone VARCHAR(32),
			email VARCHAR(255),
			address TEXT,
			latitude DOUBLE NOT NULL DEFAULT 0,
			longitude DOUBLE NOT NULL DEFAULT 0,
			cuisine VARCHAR(64),
			price_range VARCHAR(16),
			hours JSON,
			settings JSON,
			logo_url VARCHAR(512),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			rating_total DOUBLE NOT NULL DEFAULT 0,
			rating_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_cafes_owner (owner_id),
			INDEX idx_cafes_active (is_active)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS menu_categories (
			id VARCHAR(64) PRIMARY KEY,
			cafe_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			display_order INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_categories_cafe (cafe_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id VARCHAR(64) PRIMARY KEY,
			cafe_id VARCHAR(64) NOT NULL,
			category_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			base_price DECIMAL(10,2) NOT NULL,
			variants JSON,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			prep_minutes INT NOT NULL DEFAULT 0,
			display_order INT NOT NULL DEFAULT 0,
			image_url VARCHAR(512),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_items_cafe (cafe_id),
			INDEX idx_items_category (category_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS tables (
			id VARCHAR(64) PRIMARY KEY,
			cafe_id VARCHAR(64) NOT NULL,
			number INT NOT NULL,
			capacity INT NOT NULL,
			qr_payload VARCHAR(512),
			qr_image_path VARCHAR(512),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE INDEX idx_tables_cafe_number (cafe_id, number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(64) PRIMARY KEY,
			order_number VARCHAR(32) NOT NULL,
			cafe_id VARCHAR(64) NOT NULL,
			table_id VARCHAR(64),
			customer_id VARCHAR(64),
			customer_name VARCHAR(255),
			customer_phone VARCHAR(32),
			order_type VARCHAR(16) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL,
			tax_amount DECIMAL(10,2) NOT NULL,
			delivery_fee DECIMAL(10,2) NOT NULL,
			discount_amount DECIMAL(10,2) NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(32) NOT NULL,
			payment_status VARCHAR(32) NOT NULL,
			estimated_minutes INT NOT NULL DEFAULT 0,
			estimated_ready_at TIMESTAMP NULL,
			ready_at TIMESTAMP NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_orders_cafe (cafe_id),
			INDEX idx_orders_table (table_id),
			INDEX idx_orders_status (status),
			INDEX idx_orders_number (order_number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id VARCHAR(64) PRIMARY KEY,
			order_id VARCHAR(64) NOT NULL,
			menu_item_id VARCHAR(64) NOT NULL,
			item_name VARCHAR(255) NOT NULL,
			variant VARCHAR(128),
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			total_price DECIMAL(10,2) NOT NULL,
			note TEXT,
			INDEX idx_order_items_order (order_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(64) PRIMARY KEY,
			recipient_id VARCHAR(64) NOT NULL,
			type VARCHAR(32) NOT NULL,
			priority VARCHAR(16) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT,
			payload JSON,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_notifications_recipient (recipient_id),
			INDEX idx_notifications_read (recipient_id, is_read)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	s.log.LogDatabase("SUCCESS", "mysql", "All tables ready")
	return nil
}

func (s *MySQLStore) Close() error {
	s.log.LogDatabase("CLOSE", "mysql", "Closing MySQL connection")
	return s.db.Close()
}

func (s *MySQLStore) HealthCheck() error {
	return s.db.Ping()
}

// --- Users ---

func (s *MySQLStore) SaveUser(user *models.User) error {
	query := `
	INSERT INTO users (id, email, phone, password_hash, full_name, role, cafe_ids, is_active, last_login, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		user.ID, user.Email, user.Phone, user.PasswordHash, user.FullName,
		user.Role, user.CafeIDs, user.IsActive, user.LastLogin, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save user %s: %s", user.ID, err.Error()))
		return fmt.Errorf("failed to save user: %w", err)
	}
	s.log.LogDatabase("INSERT", "users", fmt.Sprintf("User %s saved", user.ID))
	return nil
}

func (s *MySQLStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Phone, &user.PasswordHash, &user.FullName,
		&user.Role, &user.CafeIDs, &user.IsActive, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *MySQLStore) GetUser(id string) (*models.User, error) {
	query := `
	SELECT id, email, phone, password_hash, full_name, role, cafe_ids, is_active, last_login, created_at, updated_at
	FROM users WHERE id = ?
	`
	return s.scanUser(s.db.QueryRow(query, id))
}

func (s *MySQLStore) GetUserByEmail(email string) (*models.User, error) {
	query := `
	SELECT id, email, phone, password_hash, full_name, role, cafe_ids, is_active, last_login, created_at, updated_at
	FROM users WHERE email = ?
	`
	return s.scanUser(s.db.QueryRow(query, email))
}

func (s *MySQLStore) UpdateUser(user *models.User) error {
	query := `
	UPDATE users SET email = ?, phone = ?, password_hash = ?, full_name = ?, role = ?,
		cafe_ids = ?, is_active = ?, last_login = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := s.db.Exec(query,
		user.Email, user.Phone, user.PasswordHash, user.FullName, user.Role,
		user.CafeIDs, user.IsActive, user.LastLogin, user.UpdatedAt, user.ID,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to update user %s: %s", user.ID, err.Error()))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Cafes ---

func (s *MySQLStore) SaveCafe(cafe *models.Cafe) error {
	query := `
	INSERT INTO cafes (id, owner_id, name, description, phone, email, address, latitude, longitude,
		cuisine, price_range, hours, settings, logo_url, is_active, rating_total, rating_count, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		cafe.ID, cafe.OwnerID, cafe.Name, cafe.Description, cafe.Phone, cafe.Email, cafe.Address,
		cafe.Latitude, cafe.Longitude, cafe.Cuisine, cafe.PriceRange, cafe.Hours, cafe.Settings,
		cafe.LogoURL, cafe.IsActive, cafe.RatingTotal, cafe.RatingCount, cafe.CreatedAt, cafe.UpdatedAt,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save cafe %s: %s", cafe.ID, err.Error()))
		return fmt.Errorf("failed to save cafe: %w", err)
	}
	s.log.LogDatabase("INSERT", "cafes", fmt.Sprintf("Cafe %s saved", cafe.ID))
	return nil
}

const cafeColumns = `id, owner_id, name, description, phone, email, address, latitude, longitude,
	cuisine, price_range, hours, settings, logo_url, is_active, rating_total, rating_count, created_at, updated_at`

func scanCafe(scanner interface{ Scan(...interface{}) error }) (*models.Cafe, error) {
	cafe := &models.Cafe{}
	err := scanner.Scan(
		&cafe.ID, &cafe.OwnerID, &cafe.Name, &cafe.Description, &cafe.Phone, &cafe.Email, &cafe.Address,
		&cafe.Latitude, &cafe.Longitude, &cafe.Cuisine, &cafe.PriceRange, &cafe.Hours, &cafe.Settings,
		&cafe.LogoURL, &cafe.IsActive, &cafe.RatingTotal, &cafe.RatingCount, &cafe.CreatedAt, &cafe.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan cafe: %w", err)
	}
	return cafe, nil
}

func (s *MySQLStore) GetCafe(id string) (*models.Cafe, error) {
	query := `SELECT ` + cafeColumns + ` FROM cafes WHERE id = ?`
	return scanCafe(s.db.QueryRow(query, id))
}

func (s *MySQLStore) listCafes(query string, args ...interface{}) ([]*models.Cafe, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	defer rows.Close()

	var cafes []*models.Cafe
	for rows.Next() {
		cafe, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		cafes = append(cafes, cafe)
	}
	return cafes, rows.Err()
}

func (s *MySQLStore) ListCafes(activeOnly bool) ([]*models.Cafe, error) {
	query := `SELECT ` + cafeColumns + ` FROM cafes`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	return s.listCafes(query)
}

func (s *MySQLStore) ListCafesByOwner(ownerID string) ([]*models.Cafe, error) {
	query := `SELECT ` + cafeColumns + ` FROM cafes WHERE owner_id = ? ORDER BY created_at DESC`
	return s.listCafes(query, ownerID)
}

func (s *MySQLStore) UpdateCafe(cafe *models.Cafe) error {
	query := `
	UPDATE cafes SET name = ?, description = ?, phone = ?, email = ?, address = ?, latitude = ?,
		longitude = ?, cuisine = ?, price_range = ?, hours = ?, settings = ?, logo_url = ?,
		is_active = ?, rating_total = ?, rating_count = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := s.db.Exec(query,
		cafe.Name, cafe.Description, cafe.Phone, cafe.Email, cafe.Address, cafe.Latitude,
		cafe.Longitude, cafe.Cuisine, cafe.PriceRange, cafe.Hours, cafe.Settings, cafe.LogoURL,
		cafe.IsActive, cafe.RatingTotal, cafe.RatingCount, cafe.UpdatedAt, cafe.ID,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to update cafe %s: %s", cafe.ID, err.Error()))
		return fmt.Errorf("failed to update cafe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Menu categories ---

func (s *MySQLStore) SaveCategory(category *models.Category) error {
	query := `
	INSERT INTO menu_categories (id, cafe_id, name, description, display_order, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		category.ID, category.CafeID, category.Name, category.Description,
		category.DisplayOrder, category.IsActive, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	s.log.LogDatabase("INSERT", "menu_categories", fmt.Sprintf("Category %s saved", category.ID))
	return nil
}

func (s *MySQLStore) GetCategory(id string) (*models.Category, error) {
	query := `
	SELECT id, cafe_id, name, description, display_order, is_active, created_at, updated_at
	FROM menu_categories WHERE id = ?
	`
	category := &models.Category{}
	err := s.db.QueryRow(query, id).Scan(
		&category.ID, &category.CafeID, &category.Name, &category.Description,
		&category.DisplayOrder, &category.IsActive, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *MySQLStore) ListCategories(cafeID string) ([]*models.Category, error) {
	query := `
	SELECT id, cafe_id, name, description, display_order, is_active, created_at, updated_at
	FROM menu_categories WHERE cafe_id = ? ORDER BY display_order ASC
	`
	rows, err := s.db.Query(query, cafeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(
			&category.ID, &category.CafeID, &category.Name, &category.Description,
			&category.DisplayOrder, &category.IsActive, &category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *MySQLStore) UpdateCategory(category *models.Category) error {
	query := `
	UPDATE menu_categories SET name = ?, description = ?, display_order = ?, is_active = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := s.db.Exec(query,
		category.Name, category.Description, category.DisplayOrder,
		category.IsActive, category.UpdatedAt, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteCategory(id string) error {
	res, err := s.db.Exec(`DELETE FROM menu_categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.log.LogDatabase("DELETE", "menu_categories", fmt.Sprintf("Category %s deleted", id))
	return nil
}

// --- Menu items ---

const menuItemColumns = `id, cafe_id, category_id, name, description, base_price, variants,
	is_available, prep_minutes, display_order, image_url, created_at, updated_at`

func scanMenuItem(scanner interface{ Scan(...interface{}) error }) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := scanner.Scan(
		&item.ID, &item.CafeID, &item.CategoryID, &item.Name, &item.Description,
		&item.BasePrice, &item.Variants, &item.IsAvailable, &item.PrepMinutes,
		&item.DisplayOrder, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan menu item: %w", err)
	}
	return item, nil
}

func (s *MySQLStore) SaveMenuItem(item *models.MenuItem) error {
	query := `
	INSERT INTO menu_items (id, cafe_id, category_id, name, description, base_price, variants,
		is_available, prep_minutes, display_order, image_url, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		item.ID, item.CafeID, item.CategoryID, item.Name, item.Description, item.BasePrice,
		item.Variants, item.IsAvailable, item.PrepMinutes, item.DisplayOrder, item.ImageURL,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	s.log.LogDatabase("INSERT", "menu_items", fmt.Sprintf("Menu item %s saved", item.ID))
	return nil
}

func (s *MySQLStore) GetMenuItem(id string) (*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ?`
	return scanMenuItem(s.db.QueryRow(query, id))
}

func (s *MySQLStore) ListMenuItems(cafeID string) ([]*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE cafe_id = ? ORDER BY display_order ASC`
	rows, err := s.db.Query(query, cafeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *MySQLStore) UpdateMenuItem(item *models.MenuItem) error {
	query := `
	UPDATE menu_items SET category_id = ?, name = ?, description = ?, base_price = ?, variants = ?,
		is_available = ?, prep_minutes = ?, display_order = ?, image_url = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := s.db.Exec(query,
		item.CategoryID, item.Name, item.Description, item.BasePrice, item.Variants,
		item.IsAvailable, item.PrepMinutes, item.DisplayOrder, item.ImageURL, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteMenuItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.log.LogDatabase("DELETE", "menu_items", fmt.Sprintf("Menu item %s deleted", id))
	return nil
}

// --- Tables ---

const tableColumns = `id, cafe_id, number, capacity, qr_payload, qr_image_path, is_active, created_at, updated_at`

func scanTable(scanner interface{ Scan(...interface{}) error }) (*models.Table, error) {
	table := &models.Table{}
	err := scanner.Scan(
		&table.ID, &table.CafeID, &table.Number, &table.Capacity,
		&table.QRPayload, &table.QRImagePath, &table.IsActive, &table.CreatedAt, &table.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan table: %w", err)
	}
	return table, nil
}

func (s *MySQLStore) SaveTable(table *models.Table) error {
	query := `
	INSERT INTO tables (id, cafe_id, number, capacity, qr_payload, qr_image_path, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		table.ID, table.CafeID, table.Number, table.Capacity,
		table.QRPayload, table.QRImagePath, table.IsActive, table.CreatedAt, table.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	s.log.LogDatabase("INSERT", "tables", fmt.Sprintf("Table %s saved", table.ID))
	return nil
}

func (s *MySQLStore) GetTable(id string) (*models.Table, error) {
	return scanTable(s.db.QueryRow(`SELECT `+tableColumns+` FROM tables WHERE id = ?`, id))
}

func (s *MySQLStore) GetTableByNumber(cafeID string, number int) (*models.Table, error) {
	return scanTable(s.db.QueryRow(
		`SELECT `+tableColumns+` FROM tables WHERE cafe_id = ? AND number = ?`, cafeID, number))
}

func (s *MySQLStore) ListTables(cafeID string, activeOnly bool) ([]*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE cafe_id = ?`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY number ASC`

	rows, err := s.db.Query(query, cafeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (s *MySQLStore) UpdateTable(table *models.Table) error {
	query := `
	UPDATE tables SET number = ?, capacity = ?, qr_payload = ?, qr_image_path = ?, is_active = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := s.db.Exec(query,
		table.Number, table.Capacity, table.QRPayload, table.QRImagePath,
		table.IsActive, table.UpdatedAt, table.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteTable(id string) error {
	res, err := s.db.Exec(`DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.log.LogDatabase("DELETE", "tables", fmt.Sprintf("Table %s deleted", id))
	return nil
}

// --- Orders ---

const orderColumns = `id, order_number, cafe_id, table_id, customer_id, customer_name, customer_phone,
	order_type, subtotal, tax_amount, delivery_fee, discount_amount, total_amount, status, payment_status,
	estimated_minutes, estimated_ready_at, ready_at, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...interface{}) error }) (*models.Order, error) {
	order := &models.Order{}
	err := scanner.Scan(
		&order.ID, &order.OrderNumber, &order.CafeID, &order.TableID, &order.CustomerID,
		&order.CustomerName, &order.CustomerPhone, &order.OrderType, &order.Subtotal,
		&order.TaxAmount, &order.DeliveryFee, &order.DiscountAmount, &order.TotalAmount,
		&order.Status, &order.PaymentStatus, &order.EstimatedMinutes,
		&order.EstimatedReadyAt, &order.ReadyAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return order, nil
}

func (s *MySQLStore) SaveOrder(order *models.Order) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO orders (id, order_number, cafe_id, table_id, customer_id, customer_name, customer_phone,
		order_type, subtotal, tax_amount, delivery_fee, discount_amount, total_amount, status, payment_status,
		estimated_minutes, estimated_ready_at, ready_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		order.ID, order.OrderNumber, order.CafeID, order.TableID, order.CustomerID,
		order.CustomerName, order.CustomerPhone, order.OrderType, order.Subtotal,
		order.TaxAmount, order.DeliveryFee, order.DiscountAmount, order.TotalAmount,
		order.Status, order.PaymentStatus, order.EstimatedMinutes,
		order.EstimatedReadyAt, order.ReadyAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save order %s: %s", order.OrderNumber, err.Error()))
		return fmt.Errorf("failed to save order: %w", err)
	}

	itemQuery := `
	INSERT INTO order_items (id, order_id, menu_item_id, item_name, variant, quantity, unit_price, total_price, note)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range order.Items {
		if _, err := tx.Exec(itemQuery,
			item.ID, order.ID, item.MenuItemID, item.ItemName, item.Variant,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.Note,
		); err != nil {
			return fmt.Errorf("failed to save order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	s.log.LogDatabase("INSERT", "orders", fmt.Sprintf("Order %s saved with %d items", order.OrderNumber, len(order.Items)))
	return nil
}

func (s *MySQLStore) loadOrderItems(order *models.Order) error {
	query := `
	SELECT id, order_id, menu_item_id, item_name, variant, quantity, unit_price, total_price, note
	FROM order_items WHERE order_id = ?
	`
	rows, err := s.db.Query(query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName, &item.Variant,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Note,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (s *MySQLStore) GetOrder(id string) (*models.Order, error) {
	order, err := scanOrder(s.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := s.loadOrderItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *MySQLStore) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	order, err := scanOrder(s.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_number = ?`, orderNumber))
	if err != nil {
		return nil, err
	}
	if err := s.loadOrderItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *MySQLStore) listOrders(query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := s.loadOrderItems(order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *MySQLStore) ListOrdersByCafe(cafeID string, filter models.OrderListFilter) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE cafe_id = ?`
	args := []interface{}{cafeID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.OrderType != "" {
		query += ` AND order_type = ?`
		args = append(args, filter.OrderType)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	return s.listOrders(query, args...)
}

func (s *MySQLStore) ListOrdersByTable(tableID string, statuses []models.OrderStatus) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE table_id = ?`
	args := []interface{}{tableID}

	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` AND status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC`
	return s.listOrders(query, args...)
}

func (s *MySQLStore) UpdateOrder(order *models.Order) error {
	query := `
	UPDATE orders SET status = ?, payment_status = ?, estimated_minutes = ?, estimated_ready_at = ?,
		ready_at = ?, discount_amount = ?, total_amount = ?, updated_at = ?
	WHERE id = ?
	`
	res, err := s.db.Exec(query,
		order.Status, order.PaymentStatus, order.EstimatedMinutes, order.EstimatedReadyAt,
		order.ReadyAt, order.DiscountAmount, order.TotalAmount, order.UpdatedAt, order.ID,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to update order %s: %s", order.ID, err.Error()))
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Notifications ---

func (s *MySQLStore) SaveNotification(n *models.Notification) error {
	query := `
	INSERT INTO notifications (id, recipient_id, type, priority, title, message, payload, is_read, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		n.ID, n.RecipientID, n.Type, n.Priority, n.Title, n.Message, n.Payload, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetNotification(id string) (*models.Notification, error) {
	query := `
	SELECT id, recipient_id, type, priority, title, message, payload, is_read, created_at
	FROM notifications WHERE id = ?
	`
	n := &models.Notification{}
	err := s.db.QueryRow(query, id).Scan(
		&n.ID, &n.RecipientID, &n.Type, &n.Priority, &n.Title, &n.Message, &n.Payload, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (s *MySQLStore) ListNotifications(recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	query := `
	SELECT id, recipient_id, type, priority, title, message, payload, is_read, created_at
	FROM notifications WHERE recipient_id = ?
	`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.Type, &n.Priority, &n.Title, &n.Message, &n.Payload, &n.IsRead, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *MySQLStore) UpdateNotification(n *models.Notification) error {
	res, err := s.db.Exec(`UPDATE notifications SET is_read = ? WHERE id = ?`, n.IsRead, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQLStore) MarkAllNotificationsRead(recipientID string) error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE recipient_id = ?`, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.log.LogDatabase("UPDATE", "notifications", fmt.Sprintf("All notifications read for %s", recipientID))
	return nil
}
