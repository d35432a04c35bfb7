// Package seed provides helpers to create built-in, test, and demo data for
// the application database.
package seed

import (
	_ "embed"
	"fmt"

	"unimarket/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed builtin.yml
var builtinYAML []byte

// Builtins holds the permanent reference data every deployment needs:
// the registrable universities and the fixed category set.
type Builtins struct {
	Universities []struct {
		Name   string `yaml:"name"`
		Domain string `yaml:"domain"`
	} `yaml:"universities"`
	Categories []string `yaml:"categories"`
}

// LoadBuiltins parses the embedded built-in data file.
func LoadBuiltins() (*Builtins, error) {
	var b Builtins
	if err := yaml.Unmarshal(builtinYAML, &b); err != nil {
		return nil, fmt.Errorf("parse builtin.yml: %w", err)
	}
	if len(b.Universities) == 0 || len(b.Categories) == 0 {
		return nil, fmt.Errorf("builtin.yml is missing universities or categories")
	}
	return &b, nil
}

// EnsureBuiltins upserts universities and categories. Safe to run at every
// startup; existing rows are matched on their unique columns.
func EnsureBuiltins(db *gorm.DB) error {
	builtins, err := LoadBuiltins()
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range builtins.Universities {
			university := models.University{Name: u.Name, Domain: u.Domain}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "domain"}},
				DoUpdates: clause.AssignmentColumns([]string{"name"}),
			}).Create(&university).Error; err != nil {
				return fmt.Errorf("seed university %q: %w", u.Name, err)
			}
		}

		for _, name := range builtins.Categories {
			category := models.Category{Name: name}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&category).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
		return nil
	})
}
