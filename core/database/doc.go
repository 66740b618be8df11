// Package database manages the GORM connection and schema.
//
// Connect opens either a MySQL connection (production) or a SQLite file
// (development) based on configuration, with silent GORM logging and
// driver error translation enabled. AutoMigrate owns the schema for all
// engine tables, and the inspector helpers expose dialect-aware column
// introspection used by the verify command.
package database
