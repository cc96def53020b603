package repos

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	applog "travelhub/internal/log"
)

// ErrDuplicate reports a UNIQUE constraint violation.
var ErrDuplicate = errors.New("duplicate")

// errMissingRef reports a FOREIGN KEY violation on insert or update.
var errMissingRef = errors.New("missing reference")

// OpenDB opens the store, applies the schema and, when seed is set, inserts demo data.
// A single connection keeps ":memory:" databases and per-connection pragmas coherent.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if !seed {
		return db, nil
	}
	// Idempotent; safe to run on every start.
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedListings(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  listing_type TEXT NOT NULL CHECK (listing_type IN ('hotel','apartment','house','experience','restaurant')),
  price_per_night NUMERIC NOT NULL CHECK (price_per_night > 0),
  location TEXT NOT NULL,
  latitude NUMERIC,
  longitude NUMERIC,
  amenities TEXT NOT NULL DEFAULT '[]',
  max_guests INTEGER NOT NULL DEFAULT 1 CHECK (max_guests > 0),
  is_available INTEGER NOT NULL DEFAULT 1,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_owner      ON listings(owner_id);
CREATE INDEX IF NOT EXISTS idx_listings_type       ON listings(listing_type);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Reviews
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  reviewer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL,
  UNIQUE(listing_id, reviewer_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(listing_id);

-- Bookings
CREATE TABLE IF NOT EXISTS bookings(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  guest_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  check_in DATE NOT NULL,
  check_out DATE NOT NULL,
  guests_count INTEGER NOT NULL CHECK (guests_count > 0),
  total_price NUMERIC NOT NULL CHECK (total_price > 0),
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','confirmed','cancelled','completed')),
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL,
  CHECK (check_out > check_in)
);
CREATE INDEX IF NOT EXISTS idx_bookings_guest   ON bookings(guest_id);
CREATE INDEX IF NOT EXISTS idx_bookings_listing ON bookings(listing_id);
`
	_, err := db.Exec(schema)
	return err
}

const seedPassword = "Passw0rd!"

var seedHash = sync.OnceValues(func() ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
})

// seedUsers ensures two USERs and one ADMIN exist.
func seedUsers(db *sqlx.DB) error {
	hash, err := seedHash()
	if err != nil {
		return err
	}
	users := []struct{ id, username, first, last, role string }{
		{"u-alice", "alice", "Alice", "Anders", "USER"},
		{"u-bob", "bob", "Bob", "Brown", "USER"},
		{"u-admin", "admin", "Ada", "Admin", "ADMIN"},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,email,first_name,last_name,password_hash,role,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.id, x.username, x.username+"@travelhub.test", x.first, x.last, string(hash), x.role, now, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func seedListings(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.listings", map[string]any{"count": 2})

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if _, err := tx.Exec(`INSERT INTO listings
	  (id,title,description,listing_type,price_per_night,location,latitude,longitude,amenities,max_guests,is_available,owner_id,created_at,updated_at)
	  VALUES
	  ('l-harbor','Harbor View Loft','Bright loft above the old harbor.','apartment',120.00,'Lisbon',38.7071,-9.1355,'["wifi","kitchen"]',3,1,'u-alice',?,?),
	  ('l-cabin','Pine Ridge Cabin','Quiet cabin with a wood stove.','house',95.50,'Asheville',35.5951,-82.5515,'["fireplace","parking"]',4,1,'u-alice',?,?)`,
		now, now, now.Add(time.Second), now.Add(time.Second)); err != nil {
		return err
	}
	return tx.Commit()
}

// classify maps driver constraint failures onto repo sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.Join(errMissingRef, err)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return errors.Join(ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errors.Join(errMissingRef, err)
	}
	return err
}

// IsMissingRef reports whether err came from a dangling foreign key.
func IsMissingRef(err error) bool { return errors.Is(err, errMissingRef) }
