// Package utils provides small type conversion helpers shared by handlers.
package utils
