package seed

import (
	"fmt"
	"log"

	"crowdfund/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumProjects int
	ShouldClean bool
}

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with the given factory options.
func NewSeeder(db *gorm.DB, opts SeedOptions) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll truncates every seeded table. Postgres only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reports, pictures, comments, ratings, donations, project_tags, tags, projects, categories, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedUsers creates `count` users. The first few are fixed accounts so the
// frontend always has known logins to demo with.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	if count >= 3 {
		base := []struct {
			username string
			admin    bool
		}{
			{"admin", true},
			{"alice", false},
			{"test", false},
		}
		for _, b := range base {
			b := b
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = b.username
				u.Email = fmt.Sprintf("%s@example.com", b.username)
				u.Bio = "One of the OGs."
				u.Avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", b.username)
				u.IsAdmin = b.admin
			})
			if err != nil {
				return nil, fmt.Errorf("create base user %q: %w", b.username, err)
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// SeedProjects creates `count` projects owned by random users, attaching
// categories, tags, and pictures. Roughly one in ten is featured and a few
// are canceled to exercise status filters.
func (s *Seeder) SeedProjects(users []*models.User, count int) ([]*models.Project, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own projects")
	}

	var categories []*models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	var tags []*models.Tag
	if err := s.db.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	r := s.factory.rand
	projects := make([]*models.Project, 0, count)
	for i := 0; i < count; i++ {
		owner := users[r.Intn(len(users))]

		var category *models.Category
		if len(categories) > 0 {
			category = categories[r.Intn(len(categories))]
		}

		project, err := s.factory.CreateProject(owner, category, func(p *models.Project) {
			if r.Float32() < 0.1 {
				p.IsFeatured = true
			}
			if r.Float32() < 0.05 {
				p.Status = models.ProjectStatusCanceled
			}
		})
		if err != nil {
			return nil, err
		}

		// one to three tags per project
		if len(tags) > 0 {
			picked := map[uint]*models.Tag{}
			for j := 0; j < 1+r.Intn(3); j++ {
				tag := tags[r.Intn(len(tags))]
				picked[tag.ID] = tag
			}
			for _, tag := range picked {
				if err := s.db.Model(project).Association("Tags").Append(tag); err != nil {
					return nil, fmt.Errorf("attach tag: %w", err)
				}
			}
		}

		// most projects get a small gallery
		for j := 0; j < r.Intn(4); j++ {
			if _, err := s.factory.CreatePicture(project); err != nil {
				return nil, err
			}
		}

		projects = append(projects, project)

		if i%100 == 0 {
			log.Printf("Created %d projects...", i)
		}
	}

	return projects, nil
}

// SeedEngagement spreads donations, ratings, and threaded comments across
// the given projects.
func (s *Seeder) SeedEngagement(users []*models.User, projects []*models.Project) error {
	if len(users) == 0 || len(projects) == 0 {
		return nil
	}
	r := s.factory.rand

	for _, project := range projects {
		// donations, some anonymous
		for i := 0; i < r.Intn(8); i++ {
			var donor *models.User
			if r.Float32() < 0.8 {
				donor = users[r.Intn(len(users))]
			}
			if _, err := s.factory.CreateDonation(donor, project); err != nil {
				return err
			}
		}

		// ratings: pick a distinct prefix of a shuffled user list so the
		// unique (project, user) constraint is never violated
		shuffled := make([]*models.User, len(users))
		copy(shuffled, users)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, rater := range shuffled[:r.Intn(min(len(shuffled), 6))] {
			if _, err := s.factory.CreateRating(rater, project, 1+r.Intn(5)); err != nil {
				return err
			}
		}

		// comments with the occasional reply
		var parents []*models.Comment
		for i := 0; i < r.Intn(5); i++ {
			author := users[r.Intn(len(users))]
			if len(parents) > 0 && r.Float32() < 0.3 {
				parent := parents[r.Intn(len(parents))]
				if _, err := s.factory.CreateComment(author, project, parent); err != nil {
					return err
				}
				continue
			}
			comment, err := s.factory.CreateComment(author, project, nil)
			if err != nil {
				return err
			}
			parents = append(parents, comment)
		}
	}

	return nil
}

// Seed populates the database with fixtures and generated demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d projects...", opts.NumUsers, opts.NumProjects)

	seeder := NewSeeder(db, SeedOptions{})

	if opts.ShouldClean {
		if err := seeder.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := LoadFixtures(db); err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	log.Println("✓ Categories and tags loaded")

	users, err := seeder.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	projects, err := seeder.SeedProjects(users, opts.NumProjects)
	if err != nil {
		return fmt.Errorf("failed to create projects: %w", err)
	}
	log.Printf("✓ %d projects created", len(projects))

	if err := seeder.SeedEngagement(users, projects); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("✓ Donations, ratings, and comments created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}
