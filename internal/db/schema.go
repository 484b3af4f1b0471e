package db

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
)

type tableDDL struct {
	name string
	ddl  string
}

// Order matters: referenced tables come first.
var schema = []tableDDL{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(32) NOT NULL DEFAULT 'user',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"locations", `
CREATE TABLE IF NOT EXISTS locations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	latitude DOUBLE NOT NULL,
	longitude DOUBLE NOT NULL,
	KEY idx_locations_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"vehicles", `
CREATE TABLE IF NOT EXISTS vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	driver_id BIGINT NOT NULL,
	plate_number VARCHAR(32) NOT NULL,
	model VARCHAR(255) NOT NULL DEFAULT '',
	color VARCHAR(64) NULL,
	seats INT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_vehicles_plate (plate_number),
	KEY idx_vehicles_driver (driver_id),
	CONSTRAINT fk_vehicles_driver FOREIGN KEY (driver_id) REFERENCES users(id),
	CONSTRAINT chk_vehicles_seats CHECK (seats >= 1)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"rides", `
CREATE TABLE IF NOT EXISTS rides (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	driver_id BIGINT NOT NULL,
	vehicle_id BIGINT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	total_seats INT NOT NULL,
	available_seats INT NOT NULL,
	price_per_seat BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_rides_start (start_time),
	KEY idx_rides_driver (driver_id),
	CONSTRAINT fk_rides_driver FOREIGN KEY (driver_id) REFERENCES users(id),
	CONSTRAINT fk_rides_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE SET NULL,
	CONSTRAINT chk_rides_seats CHECK (available_seats >= 0 AND available_seats <= total_seats),
	CONSTRAINT chk_rides_window CHECK (end_time > start_time)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"ride_stops", `
CREATE TABLE IF NOT EXISTS ride_stops (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	ride_id BIGINT NOT NULL,
	position INT NOT NULL,
	kind ENUM('start','intermediate','end') NOT NULL,
	location_id BIGINT NOT NULL,
	arrival_time DATETIME NULL,
	UNIQUE KEY uniq_ride_stop_position (ride_id, position),
	KEY idx_ride_stops_location (location_id, kind),
	CONSTRAINT fk_ride_stops_ride FOREIGN KEY (ride_id) REFERENCES rides(id),
	CONSTRAINT fk_ride_stops_location FOREIGN KEY (location_id) REFERENCES locations(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	ride_id BIGINT NOT NULL,
	passenger_id BIGINT NOT NULL,
	seats_reserved INT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_bookings_ride (ride_id),
	KEY idx_bookings_passenger (passenger_id),
	CONSTRAINT fk_bookings_ride FOREIGN KEY (ride_id) REFERENCES rides(id),
	CONSTRAINT fk_bookings_passenger FOREIGN KEY (passenger_id) REFERENCES users(id),
	CONSTRAINT chk_bookings_seats CHECK (seats_reserved >= 1)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"conversations", `
CREATE TABLE IF NOT EXISTS conversations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user1_id BIGINT NOT NULL,
	user2_id BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_conversation_pair (user1_id, user2_id),
	KEY idx_conversations_user2 (user2_id),
	CONSTRAINT chk_conversation_order CHECK (user1_id < user2_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"messages", `
CREATE TABLE IF NOT EXISTS messages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	conversation_id BIGINT NOT NULL,
	sender_id BIGINT NOT NULL,
	body TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_messages_conversation (conversation_id, id),
	CONSTRAINT fk_messages_conversation FOREIGN KEY (conversation_id) REFERENCES conversations(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"ratings", `
CREATE TABLE IF NOT EXISTS ratings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	ride_id BIGINT NOT NULL,
	rater_id BIGINT NOT NULL,
	score TINYINT NOT NULL,
	comment VARCHAR(1000) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_rating_ride_rater (ride_id, rater_id),
	CONSTRAINT fk_ratings_ride FOREIGN KEY (ride_id) REFERENCES rides(id),
	CONSTRAINT chk_ratings_score CHECK (score BETWEEN 1 AND 5)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db sqlx.ExtContext) error {
	for _, t := range schema {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return err
		}
		log.Printf("[DB] created table %s", t.name)
	}
	return nil
}
