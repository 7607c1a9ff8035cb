package main

import (
	"context"
	"os"

	articleModel "community_hub/internal/domain/article/model"
	groupModel "community_hub/internal/domain/group/model"
	userModel "community_hub/internal/domain/user/model"
	"community_hub/internal/pkg/config"
	"community_hub/pkg/database"
	"community_hub/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var defaultGroups = []groupModel.Group{
	{
		Name:        "ATG World",
		Image:       "/static/group1.png",
		Description: "Welcome to ATG World",
	},
}

var defaultArticles = []articleModel.Article{
	{
		Type:     "Article",
		Title:    "What if famous brands had regular fonts? Meet RegulaBrands!",
		Content:  "I've worked in UX for the better part of a decade. From now on, I plan to rei...",
		Image:    "/static/m.png",
		Author:   datatypes.NewJSONType(articleModel.ArticleAuthor{Name: "Sarthak Kamra", Avatar: "/static/karma.png", Designation: "UX Designer"}),
		Views:    1400,
		Category: "Design",
		ReadTime: "5 min read",
	},
	{
		Type:     "Education",
		Title:    "Tax Benefits for Investment under National Pension Scheme",
		Content:  "I've worked in UX for the better part of a decade. From now on, I plan to rei...",
		Image:    "/static/door.png",
		Author:   datatypes.NewJSONType(articleModel.ArticleAuthor{Name: "Sarah West", Avatar: "/static/sara.png", Designation: "Tax Specialist"}),
		Views:    1400,
		Category: "Finance",
		ReadTime: "7 min read",
	},
	{
		Type:     "Meetup",
		Title:    "Finance & Investment Elite Social Mixer @Lujiazui",
		Content:  "I've worked in UX for the better part of a decade. From now on, I plan to rei...",
		Image:    "/static/car.png",
		Author:   datatypes.NewJSONType(articleModel.ArticleAuthor{Name: "Ronal Jones", Avatar: "/static/red.png", Designation: "Event Organizer"}),
		Views:    1400,
		Category: "Meetup",
		ReadTime: "10 min read",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Log.Fatal("connect database", zap.Error(err))
	}

	ctx := context.Background()
	if err := seed(ctx, db, os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("data seeded successfully")
}

// seed 可重复执行：已存在的数据不会重复插入
func seed(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, g := range defaultGroups {
			group := g
			if err := tx.Where("name = ?", group.Name).FirstOrCreate(&group).Error; err != nil {
				return errors.Wrapf(err, "seed group %s", group.Name)
			}
		}

		if adminEmail != "" && adminPassword != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return errors.Wrap(err, "hash admin password")
			}
			admin := userModel.User{Name: "Admin", Email: adminEmail, Password: string(hash), Role: userModel.RoleAdmin}
			if err := tx.Where("email = ?", adminEmail).FirstOrCreate(&admin).Error; err != nil {
				return errors.Wrap(err, "seed admin")
			}
		}

		var count int64
		if err := tx.Model(&articleModel.Article{}).Count(&count).Error; err != nil {
			return errors.Wrap(err, "count articles")
		}
		if count == 0 {
			articles := make([]articleModel.Article, len(defaultArticles))
			copy(articles, defaultArticles)
			if err := tx.Create(&articles).Error; err != nil {
				return errors.Wrap(err, "seed articles")
			}
		}
		return nil
	})
}
