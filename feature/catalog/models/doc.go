// Package models defines the product catalog schema.
package models
