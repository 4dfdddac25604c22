// cmd/seed/main.go
//
// Schema migration plus starter journey templates. Safe to re-run: seeding
// is skipped when any template already exists.
package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"innerpath/internal/config"
	"innerpath/internal/model"
	"innerpath/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&model.JourneyTemplate{},
		&model.StepBlueprint{},
		&model.UserJourney{},
		&model.PauseInterval{},
		&model.StepRecord{},
		&model.SecurityEvent{},
	); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Migration complete")

	var count int64
	if err := db.Model(&model.JourneyTemplate{}).Count(&count).Error; err != nil {
		slog.Error("Failed to inspect journey_templates", slog.Any("error", err))
		os.Exit(1)
	}
	if count > 0 {
		slog.Info("Templates already present, skipping seed", slog.Int64("count", count))
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		for _, tpl := range starterTemplates() {
			if err := tx.Create(tpl).Error; err != nil {
				return err
			}
			slog.Info("Seeded template", slog.String("title", tpl.Title), slog.String("theme", string(tpl.Theme)))
		}
		return nil
	}); err != nil {
		slog.Error("Seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Seed complete")
}

func starterTemplates() []*model.JourneyTemplate {
	type day struct {
		tags      string
		maxTokens int
	}

	build := func(theme model.Theme, title string, durationDays, difficulty, priority int, days []day) *model.JourneyTemplate {
		tpl := &model.JourneyTemplate{
			TemplateID:   uuid.New(),
			Theme:        theme,
			Title:        title,
			DurationDays: durationDays,
			Difficulty:   difficulty,
			Priority:     priority,
		}
		for i, d := range days {
			tpl.Blueprints = append(tpl.Blueprints, model.StepBlueprint{
				TemplateID: tpl.TemplateID,
				DayIndex:   i + 1,
				Tags:       d.tags,
				MaxTokens:  d.maxTokens,
			})
		}
		return tpl
	}

	return []*model.JourneyTemplate{
		build(model.ThemeOverthinking, "Quiet the Loop", 7, 1, 10, []day{
			{"thought_labeling", 400},
			{"thought_labeling,grounding", 400},
			{"grounding", 450},
			{"grounding,values", 450},
			{"values", 450},
			{"grounding,self_compassion", 450},
			{"values,self_compassion", 500},
		}),
		build(model.ThemeSelfCriticism, "A Kinder Voice", 7, 2, 20, []day{
			{"thought_labeling", 400},
			{"self_compassion", 450},
			{"self_compassion,connection", 450},
			{"self_compassion", 500},
			{"values", 450},
			{"self_compassion,rest", 450},
			{"values,self_compassion", 500},
		}),
		build(model.ThemeAvoidance, "Small Brave Steps", 10, 2, 30, []day{
			{"thought_labeling", 400},
			{"values", 400},
			{"small_steps", 450},
			{"small_steps", 450},
			{"small_steps,values", 450},
			{"small_steps", 450},
			{"self_compassion,small_steps", 450},
			{"small_steps", 450},
			{"small_steps,values", 450},
			{"values", 500},
		}),
		build(model.ThemeBurnout, "Refill the Well", 7, 1, 40, []day{
			{"rest", 400},
			{"values,rest", 450},
			{"rest,grounding", 450},
			{"values", 450},
			{"rest", 450},
			{"rest,self_compassion", 450},
			{"values,rest", 500},
		}),
		build(model.ThemeDisconnection, "Reaching Back Out", 7, 1, 50, []day{
			{"connection", 400},
			{"values,connection", 400},
			{"connection,small_steps", 450},
			{"connection", 450},
			{"connection,small_steps", 450},
			{"connection,self_compassion", 450},
			{"values,connection", 500},
		}),
	}
}
