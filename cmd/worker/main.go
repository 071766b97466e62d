package main

import (
	"context"
	"log"
	"os"

	"closetapi/dbhelper"
	"closetapi/services"
	"closetapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
)

func NewStyleReminderTask() *asynq.Task {
	return asynq.NewTask(tasks.TypeStyleReminder, []byte{})
}

func runScheduler() {

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{

		LogLevel: asynq.InfoLevel,
	})

	scheduled := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 9 * * *", // 9:00 AM daily
			task: NewStyleReminderTask(),
			desc: "Daily style reminder notifications",
		},
	}

	for _, t := range scheduled {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"wardrobe": 7,
		}},
	)
	awsService := &services.AWSService{}
	stylist := &services.GoogleStylistProcessor{}
	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc(tasks.TypeAnalyzeClothing, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleClothingAnalyzeTask(ctx, t, db, stylist, awsService, app)
	})
	mux.HandleFunc(tasks.TypeDescribeOutfit, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleOutfitDescribeTask(ctx, t, db, stylist, app)
	})
	mux.HandleFunc(tasks.TypeStyleReminder, func(ctx context.Context, t *asynq.Task) error {
		return tasks.ScheduledStyleReminderTask(ctx, t, db, app)
	})

	go runScheduler()
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
