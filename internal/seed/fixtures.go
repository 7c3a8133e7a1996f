package seed

import (
	"fmt"

	"crowdfund/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// fixturesYAML is the curated catalog every environment starts from.
// Categories and tags are looked up by name, so re-running is idempotent.
const fixturesYAML = `
categories:
  - name: Arts & Culture
    description: Exhibitions, performances, murals, and community art spaces
  - name: Technology
    description: Hardware, software, and open source tooling
  - name: Community
    description: Neighborhood initiatives, shared spaces, and local services
  - name: Education
    description: Courses, workshops, scholarships, and learning materials
  - name: Environment
    description: Conservation, clean energy, and sustainable living
  - name: Health
    description: Medical costs, accessibility aids, and wellbeing programs
  - name: Food
    description: Community kitchens, food banks, and local producers
  - name: Sports
    description: Teams, equipment, and facilities for amateur athletics

tags:
  - open-source
  - solar
  - garden
  - music
  - film
  - accessibility
  - youth
  - recycling
  - library
  - theater
  - robotics
  - bicycle
`

type fixtureCatalog struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
	Tags []string `yaml:"tags"`
}

// LoadFixtures inserts the built-in categories and tags, skipping any that
// already exist.
func LoadFixtures(db *gorm.DB) error {
	var catalog fixtureCatalog
	if err := yaml.Unmarshal([]byte(fixturesYAML), &catalog); err != nil {
		return fmt.Errorf("parse fixture catalog: %w", err)
	}

	for _, c := range catalog.Categories {
		var category models.Category
		err := db.Where(models.Category{Name: c.Name}).
			Attrs(models.Category{Description: c.Description}).
			FirstOrCreate(&category).Error
		if err != nil {
			return fmt.Errorf("create category %q: %w", c.Name, err)
		}
	}

	for _, name := range catalog.Tags {
		var tag models.Tag
		if err := db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("create tag %q: %w", name, err)
		}
	}

	return nil
}
