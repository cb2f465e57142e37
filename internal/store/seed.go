package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"financetrack/internal/logging"
	"financetrack/internal/models"
)

// categorySeed is the YAML shape of the category seed file.
type categorySeed struct {
	Categories []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"categories"`
}

// defaultCategories is used when no seed file is present.
var defaultCategories = []models.Category{
	{Name: "Food & Dining", Color: "#FF5733"},
	{Name: "Transport", Color: "#3498DB"},
	{Name: "Shopping", Color: "#9B59B6"},
	{Name: "Entertainment", Color: "#E74C3C"},
	{Name: "Bills & Utilities", Color: "#F39C12"},
	{Name: "Healthcare", Color: "#1ABC9C"},
	{Name: "Education", Color: "#34495E"},
	{Name: "Travel", Color: "#16A085"},
	{Name: "Income", Color: "#27AE60"},
	{Name: "Other", Color: "#95A5A6"},
}

// LoadCategorySeed reads categories from a YAML file. A missing file falls
// back to the built-in defaults.
func LoadCategorySeed(path string, logger logging.Logger) []models.Category {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithError(err).Warn("Failed to read category seed file, using defaults")
		}
		return defaultCategories
	}

	var seed categorySeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.WithError(err).Warn("Failed to parse category seed file, using defaults")
		return defaultCategories
	}

	categories := make([]models.Category, 0, len(seed.Categories))
	for _, c := range seed.Categories {
		if c.Name == "" {
			continue
		}
		color := c.Color
		if color == "" {
			color = "#6B7280"
		}
		categories = append(categories, models.Category{Name: c.Name, Color: color})
	}
	if len(categories) == 0 {
		return defaultCategories
	}
	return categories
}

// SeedCategories inserts the given categories, skipping names that already exist.
func (s *Store) SeedCategories(ctx context.Context, categories []models.Category) error {
	for _, c := range categories {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO categories (name, color) VALUES ($1, $2)
			 ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Color)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
	}
	s.logger.WithField("count", len(categories)).Info("Categories seeded")
	return nil
}
