package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/enrudae/TutorToolkit/internal/config"
	"github.com/enrudae/TutorToolkit/internal/handlers"
	"github.com/enrudae/TutorToolkit/internal/repository"
	"github.com/enrudae/TutorToolkit/internal/services"
	"github.com/enrudae/TutorToolkit/pkg/database"
	"github.com/enrudae/TutorToolkit/pkg/logger"
	"github.com/enrudae/TutorToolkit/pkg/scheduler"
	"github.com/enrudae/TutorToolkit/pkg/sender"
	"github.com/enrudae/TutorToolkit/pkg/telegram"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Configure(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to configure logger: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Каналы доставки уведомлений: недоступный канал пропускается
	var emailSender sender.EmailSender
	if cfg.SendgridAPIKey != "" {
		emailSender = sender.NewSendgridEmailSender(cfg.SendgridAPIKey, cfg.EmailFrom)
	}

	var telegramSender sender.TelegramSender
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("Failed to initialize Telegram bot: %v", err)
		} else {
			telegramSender = sender.NewBotTelegramSender(bot)
		}
	}

	dispatcher := sender.NewDispatcher(emailSender, sender.LogPushSender{}, telegramSender)

	// Планировщик отложенных задач
	tasks := scheduler.New()
	defer tasks.Stop()

	// Создаем репозитории
	userRepo := repository.NewUserRepository(db.DB)
	planRepo := repository.NewEducationPlanRepository(db.DB)
	moduleRepo := repository.NewModuleRepository(db.DB)
	cardRepo := repository.NewCardRepository(db.DB)
	lessonRepo := repository.NewLessonRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	labelRepo := repository.NewLabelRepository(db.DB)

	// Создаем сервисы
	invitationService := services.NewStudentInvitationService(planRepo)
	notificationService := services.NewNotificationService(
		notificationRepo, lessonRepo, cardRepo, moduleRepo, planRepo, userRepo,
		tasks, dispatcher, cfg.ReminderLead,
	)
	authService := services.NewAuthService(userRepo, invitationService, cfg.JWTSecret, cfg.JWTExpiration)
	planService := services.NewEducationPlanService(planRepo, invitationService, notificationService)
	boardService := services.NewBoardService(planRepo, moduleRepo, cardRepo)
	cardService := services.NewCardService(cardRepo, moduleRepo, planRepo, labelRepo, notificationService)
	lessonService := services.NewLessonService(lessonRepo, planRepo, cardRepo, notificationService)
	labelService := services.NewLabelService(labelRepo)

	// Создаем обработчики
	authHandler := handlers.NewAuthHandler(authService)
	planHandler := handlers.NewPlanHandler(planService, invitationService)
	boardHandler := handlers.NewBoardHandler(boardService)
	cardHandler := handlers.NewCardHandler(cardService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	labelHandler := handlers.NewLabelHandler(labelService)

	router := gin.Default()

	// Middleware
	router.Use(handlers.CORSMiddleware())

	// API маршруты
	api := router.Group("/api")

	// Публичные маршруты
	public := api.Group("/")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.GET("/invite_info/:code", planHandler.GetInviteInfo)
	}

	// Защищенные маршруты
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware(authService))
	{
		protected.GET("/profile", authHandler.GetProfile)

		protected.GET("/plans", planHandler.ListPlans)
		protected.GET("/plans/:id", planHandler.GetPlanTree)

		protected.GET("/cards/:id", cardHandler.GetCard)
		protected.GET("/lessons", lessonHandler.ListLessons)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
	}

	// Маршруты только для преподавателей
	tutor := api.Group("/")
	tutor.Use(handlers.AuthMiddleware(authService))
	tutor.Use(handlers.TutorOnlyMiddleware())
	{
		// Планы обучения
		tutor.POST("/plans", planHandler.CreatePlan)
		tutor.PUT("/plans/:id", planHandler.UpdatePlan)
		tutor.DELETE("/plans/:id", planHandler.DeletePlan)

		// Доска: модули и перемещение элементов
		tutor.POST("/board/modules", boardHandler.CreateModule)
		tutor.PUT("/board/modules/:id", boardHandler.RenameModule)
		tutor.DELETE("/board/modules/:id", boardHandler.DeleteModule)
		tutor.POST("/board/move", boardHandler.Move)

		// Карточки
		tutor.POST("/modules/:module_id/cards", cardHandler.CreateCard)
		tutor.PUT("/cards/:id", cardHandler.UpdateCard)
		tutor.DELETE("/cards/:id", cardHandler.DeleteCard)
		tutor.PUT("/cards/:id/labels", cardHandler.SetLabels)

		// Шаблоны карточек
		tutor.POST("/templates", cardHandler.CreateTemplate)
		tutor.GET("/templates", cardHandler.ListTemplates)
		tutor.POST("/templates/instantiate", cardHandler.CreateCardFromTemplate)

		// Занятия
		tutor.POST("/lessons", lessonHandler.CreateLesson)
		tutor.PUT("/lessons/:id", lessonHandler.UpdateLesson)
		tutor.DELETE("/lessons/:id", lessonHandler.CancelLesson)

		// Метки
		tutor.POST("/labels", labelHandler.CreateLabel)
		tutor.GET("/labels", labelHandler.ListLabels)
		tutor.DELETE("/labels/:id", labelHandler.DeleteLabel)
	}

	// Маршруты только для учеников
	student := api.Group("/")
	student.Use(handlers.AuthMiddleware(authService))
	student.Use(handlers.StudentOnlyMiddleware())
	{
		student.POST("/plans/claim", planHandler.ClaimInvite)
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting TutorToolkit server on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
