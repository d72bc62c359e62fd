package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"

	"safepulse/models"
)

// InitSchema creates the necessary database tables if they don't exist and
// seeds the volunteer directory.
func InitSchema(db *sql.DB) error {
	log.Info("Initializing safepulse database schema...")

	usersTableSQL := `
	CREATE TABLE IF NOT EXISTS users(
		id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(usersTableSQL); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	log.Info("Users table created/verified")

	contactsTableSQL := `
	CREATE TABLE IF NOT EXISTS emergency_contacts(
		id BIGINT NOT NULL AUTO_INCREMENT,
		user_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		relationship VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX user_id_index (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(contactsTableSQL); err != nil {
		return fmt.Errorf("failed to create emergency_contacts table: %w", err)
	}
	log.Info("Emergency_contacts table created/verified")

	reportsTableSQL := `
	CREATE TABLE IF NOT EXISTS reports(
		id VARCHAR(36) NOT NULL,
		reporter_id VARCHAR(64) NOT NULL,
		raw_text TEXT NOT NULL,
		anonymized_text TEXT NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		severity VARCHAR(16) NOT NULL,
		categories JSON NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'submitted',
		verification_count INT NOT NULL DEFAULT 0,
		requires_immediate_action BOOL NOT NULL DEFAULT false,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX location_index (latitude, longitude),
		INDEX status_index (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(reportsTableSQL); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}
	log.Info("Reports table created/verified")

	alertsTableSQL := `
	CREATE TABLE IF NOT EXISTS alerts(
		id VARCHAR(36) NOT NULL,
		reporter_id VARCHAR(64) NOT NULL,
		alert_type VARCHAR(64) NOT NULL DEFAULT 'general',
		description TEXT NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		severity VARCHAR(16) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		verification_count INT NOT NULL DEFAULT 1,
		resolution_details TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX location_index (latitude, longitude),
		INDEX status_index (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(alertsTableSQL); err != nil {
		return fmt.Errorf("failed to create alerts table: %w", err)
	}
	log.Info("Alerts table created/verified")

	journeysTableSQL := `
	CREATE TABLE IF NOT EXISTS journeys(
		id VARCHAR(36) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		start_latitude DOUBLE NOT NULL,
		start_longitude DOUBLE NOT NULL,
		dest_latitude DOUBLE NOT NULL,
		dest_longitude DOUBLE NOT NULL,
		travel_mode VARCHAR(32) NOT NULL DEFAULT 'walking',
		status VARCHAR(16) NOT NULL DEFAULT 'active',
		route_safety JSON NOT NULL,
		safety_recommendations JSON NOT NULL,
		start_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		end_time TIMESTAMP NULL DEFAULT NULL,
		PRIMARY KEY (id),
		INDEX user_id_index (user_id),
		INDEX status_index (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(journeysTableSQL); err != nil {
		return fmt.Errorf("failed to create journeys table: %w", err)
	}
	log.Info("Journeys table created/verified")

	sosTableSQL := `
	CREATE TABLE IF NOT EXISTS sos_history(
		id BIGINT NOT NULL AUTO_INCREMENT,
		user_id VARCHAR(64) NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		message TEXT NOT NULL,
		contacts_notified JSON NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX user_id_index (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(sosTableSQL); err != nil {
		return fmt.Errorf("failed to create sos_history table: %w", err)
	}
	log.Info("Sos_history table created/verified")

	volunteersTableSQL := `
	CREATE TABLE IF NOT EXISTS volunteers(
		id VARCHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		expertise JSON NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	if _, err := db.Exec(volunteersTableSQL); err != nil {
		return fmt.Errorf("failed to create volunteers table: %w", err)
	}
	log.Info("Volunteers table created/verified")

	// Run migrations for existing tables
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedVolunteers(db); err != nil {
		return fmt.Errorf("failed to seed volunteers: %w", err)
	}

	log.Info("Safepulse database schema initialization completed")
	return nil
}

// runMigrations brings tables created by earlier versions up to the current
// shape.
func runMigrations(db *sql.DB) error {
	log.Info("Running database migrations...")

	if err := addRelationshipToContacts(db); err != nil {
		return fmt.Errorf("failed to add relationship to emergency_contacts table: %w", err)
	}

	if err := addResolutionDetailsToAlerts(db); err != nil {
		return fmt.Errorf("failed to add resolution_details to alerts table: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// addRelationshipToContacts adds the relationship field to the
// emergency_contacts table if it doesn't exist
func addRelationshipToContacts(db *sql.DB) error {
	// Check if relationship column exists
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		AND TABLE_NAME = 'emergency_contacts'
		AND COLUMN_NAME = 'relationship'
	`).Scan(&count)

	if err != nil {
		log.Warnf("Could not check if relationship column exists: %v", err)
		return err
	}

	if count == 0 {
		_, err := db.Exec(`
			ALTER TABLE emergency_contacts
			ADD COLUMN relationship VARCHAR(64) NOT NULL DEFAULT ''
		`)
		if err != nil {
			log.Warnf("Could not add relationship column to emergency_contacts table: %v", err)
			return err
		}
		log.Info("Added relationship column to emergency_contacts table")
	} else {
		log.Info("Relationship column already exists in emergency_contacts table")
	}

	return nil
}

// addResolutionDetailsToAlerts adds the resolution_details field to the
// alerts table if it doesn't exist
func addResolutionDetailsToAlerts(db *sql.DB) error {
	// Check if resolution_details column exists
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		AND TABLE_NAME = 'alerts'
		AND COLUMN_NAME = 'resolution_details'
	`).Scan(&count)

	if err != nil {
		log.Warnf("Could not check if resolution_details column exists: %v", err)
		return err
	}

	if count == 0 {
		_, err := db.Exec(`
			ALTER TABLE alerts
			ADD COLUMN resolution_details TEXT
		`)
		if err != nil {
			log.Warnf("Could not add resolution_details column to alerts table: %v", err)
			return err
		}
		log.Info("Added resolution_details column to alerts table")
	} else {
		log.Info("Resolution_details column already exists in alerts table")
	}

	return nil
}

// seedVolunteers inserts the stock community volunteers into an empty
// directory.
func seedVolunteers(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM volunteers`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	volunteers := []models.Volunteer{
		{Id: "vol1", Name: "Support Volunteer 1", Expertise: []string{"harassment", "stalking"}},
		{Id: "vol2", Name: "Support Volunteer 2", Expertise: []string{"physical_threat", "unsafe_environment"}},
		{Id: "vol3", Name: "Support Volunteer 3", Expertise: []string{"general_concern"}},
	}
	for _, volunteer := range volunteers {
		expertise, err := encodeStrings(volunteer.Expertise)
		if err != nil {
			return err
		}
		if _, err := db.Exec(`INSERT INTO volunteers (id, name, expertise) VALUES (?, ?, ?)`,
			volunteer.Id, volunteer.Name, expertise); err != nil {
			return err
		}
	}
	log.Infof("Seeded %d volunteers", len(volunteers))
	return nil
}
