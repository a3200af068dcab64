package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	_ "github.com/lib/pq"

	"eventbot/config"
	discordadapter "eventbot/internal/adapters/discord"
	"eventbot/internal/delivery/discord"
	"eventbot/internal/repository/postgres"
	"eventbot/internal/services"
)

const serviceTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discord session: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	messenger := discordadapter.NewMessenger(session)

	userService := services.NewUserService(userRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, templateRepo, userRepo, subscriptionRepo, messenger, logger, serviceTimeout)
	templateService := services.NewTemplateService(templateRepo, serviceTimeout)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, serviceTimeout)

	bot := discord.NewBot(session, logger, userService, eventService, templateService, subscriptionService, cfg.TestGuildID)
	if err := bot.Start(); err != nil {
		log.Fatalf("start bot: %v", err)
	}
	defer bot.Close()

	logger.Info("eventbot running", "environment", cfg.Environment)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
}
