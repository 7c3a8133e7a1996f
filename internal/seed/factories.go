// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"crowdfund/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune how the factory generates data.
type SeedOptions struct {
	// DryRun logs what would be created without writing to the database.
	DryRun bool
	// SkipBcrypt stores plaintext passwords; much faster for large seeds.
	SkipBcrypt bool
	// MaxDays is how far back in time created entities are spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rand *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano())), nextID: 1000}
}

// pastTime returns a timestamp spread over the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	daysBack := f.rand.Intn(f.opts.MaxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProject constructs and persists a sample `models.Project` owned by
// the given user. The campaign window starts in the recent past and runs for
// one to four months.
func (f *Factory) CreateProject(owner *models.User, category *models.Category, overrides ...func(*models.Project)) (*models.Project, error) {
	start := f.pastTime()
	project := &models.Project{
		Title:       gofakeit.Sentence(4),
		Details:     gofakeit.Paragraph(2, 4, 8, "\n"),
		TotalTarget: int64(gofakeit.Number(500, 50000)),
		OwnerID:     owner.ID,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(30+f.rand.Intn(90)) * 24 * time.Hour),
		Status:      models.ProjectStatusActive,
	}
	if category != nil {
		project.CategoryID = &category.ID
	}
	project.CreatedAt = start

	for _, override := range overrides {
		override(project)
	}

	if f.opts.DryRun {
		f.nextID++
		project.ID = f.nextID
		log.Printf("[dry-run] CreateProject: owner=%d title=%q target=%d", project.OwnerID, project.Title, project.TotalTarget)
		return project, nil
	}

	if err := f.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// CreateDonation persists a donation from `user` to `project`.
// Pass a nil user for an anonymous donation.
func (f *Factory) CreateDonation(user *models.User, project *models.Project, overrides ...func(*models.Donation)) (*models.Donation, error) {
	donation := &models.Donation{
		ProjectID: project.ID,
		Amount:    int64(gofakeit.Number(10, 500)),
	}
	if user != nil {
		donation.UserID = &user.ID
	}

	for _, override := range overrides {
		override(donation)
	}

	if f.opts.DryRun {
		f.nextID++
		donation.ID = f.nextID
		log.Printf("[dry-run] CreateDonation: project=%d amount=%d", donation.ProjectID, donation.Amount)
		return donation, nil
	}

	if err := f.db.Create(donation).Error; err != nil {
		return nil, err
	}
	return donation, nil
}

// CreateRating persists a rating from `user` on `project`. The (project,
// user) pair is unique, so call this at most once per pair.
func (f *Factory) CreateRating(user *models.User, project *models.Project, value int) (*models.Rating, error) {
	rating := &models.Rating{
		ProjectID: project.ID,
		UserID:    user.ID,
		Value:     value,
	}

	if f.opts.DryRun {
		f.nextID++
		rating.ID = f.nextID
		return rating, nil
	}

	if err := f.db.Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided project authored by the provided user. Pass a non-nil parent to
// create a reply.
func (f *Factory) CreateComment(user *models.User, project *models.Project, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		UserID:    user.ID,
		ProjectID: project.ID,
		IsActive:  true,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreatePicture persists a gallery picture for the given project.
func (f *Factory) CreatePicture(project *models.Project, overrides ...func(*models.Picture)) (*models.Picture, error) {
	picture := &models.Picture{
		ProjectID: project.ID,
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(picture)
	}

	if f.opts.DryRun {
		f.nextID++
		picture.ID = f.nextID
		return picture, nil
	}

	if err := f.db.Create(picture).Error; err != nil {
		return nil, err
	}
	return picture, nil
}
