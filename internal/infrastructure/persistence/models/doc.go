// Package models contains the GORM persistence models and their
// conversions to and from domain entities. Domain entities never carry
// GORM concerns beyond column tags on shared embedded types; everything
// table-specific lives here.
package models
