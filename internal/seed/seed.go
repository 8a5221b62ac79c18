// Package seed creates advice and demo data for development databases.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"reso/internal/models"
	"reso/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Seeder writes through the repositories so counters stay consistent.
type Seeder struct {
	db       *gorm.DB
	advice   repository.AdviceRepository
	users    repository.UserRepository
	stories  repository.StoryRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:       db,
		advice:   repository.NewAdviceRepository(db),
		users:    repository.NewUserRepository(db),
		stories:  repository.NewStoryRepository(db),
		comments: repository.NewCommentRepository(db),
		likes:    repository.NewLikeRepository(db),
	}
}

// Advice inserts n advice entries. An existing catalogue is kept unless
// replace is set, in which case advice and its bookmarks are wiped first.
func (s *Seeder) Advice(ctx context.Context, n int, replace bool) (int, error) {
	existing, err := s.advice.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count advice: %w", err)
	}
	if existing > 0 && !replace {
		log.Printf("advice already seeded (%d rows), skipping", existing)
		return 0, nil
	}

	if replace {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("1 = 1").Delete(&models.Bookmark{}).Error; err != nil {
				return err
			}
			return tx.Where("1 = 1").Delete(&models.Advice{}).Error
		})
		if err != nil {
			return 0, fmt.Errorf("clear advice: %w", err)
		}
	}

	items := make([]*models.Advice, 0, n)
	for i := 0; i < n; i++ {
		author := gofakeit.Name()
		items = append(items, &models.Advice{
			Content: gofakeit.Sentence(rand.IntN(8) + 6),
			Author:  &author,
		})
	}
	if err := s.advice.Seed(ctx, items); err != nil {
		return 0, fmt.Errorf("seed advice: %w", err)
	}
	return len(items), nil
}

// DemoResult counts what Demo created.
type DemoResult struct {
	Users    int
	Stories  int
	Comments int
	Likes    int
}

// Demo creates users with public and private stories, comments and likes.
func (s *Seeder) Demo(ctx context.Context, numUsers, storiesPerUser int) (*DemoResult, error) {
	res := &DemoResult{}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		nick := gofakeit.Username()
		if len(nick) > 30 {
			nick = nick[:30]
		}
		u, err := s.users.FindOrCreateByEmail(ctx, &models.User{
			Email:    fmt.Sprintf("demo%d.%s", i, strings.ToLower(gofakeit.Email())),
			Nickname: nick,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	var public []*models.Story
	for _, u := range users {
		for j := 0; j < storiesPerUser; j++ {
			title := gofakeit.Sentence(4)
			if len(title) > 100 {
				title = title[:100]
			}
			story := &models.Story{
				UserID:   u.ID,
				Title:    title,
				Content:  gofakeit.Paragraph(1, 3, 12, " "),
				IsPublic: rand.IntN(4) != 0,
				Emotion:  models.RandomEmotion(),
			}
			if err := s.stories.Create(ctx, story); err != nil {
				return nil, fmt.Errorf("create story: %w", err)
			}
			res.Stories++
			if story.IsPublic {
				public = append(public, story)
			}
		}
	}

	for _, story := range public {
		for _, u := range users {
			if u.ID == story.UserID {
				continue
			}
			if rand.IntN(3) == 0 {
				c := &models.Comment{StoryID: story.ID, UserID: u.ID, Content: gofakeit.Sentence(8)}
				if err := s.comments.Create(ctx, c); err != nil {
					return nil, fmt.Errorf("create comment: %w", err)
				}
				res.Comments++
			}
			if rand.IntN(2) == 0 {
				if _, err := s.likes.ToggleStoryLike(ctx, u.ID, story.ID); err != nil {
					return nil, fmt.Errorf("like story: %w", err)
				}
				res.Likes++
			}
		}
	}
	return res, nil
}
