package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hirelens/hirelens"
	"github.com/hirelens/hirelens/core"
)

var dbPath = flag.String("db", "./hirelens_db", "path to BadgerDB database directory")

func date(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// A small bilingual sample set: enough to exercise translation
// backfill, tiering and candidate aggregation from the CLI.
var experiences = []*core.Experience{
	{
		CandidateId: 1,
		Position:    "Software Engineer",
		Company:     "Acme",
		Content:     "Developed billing microservices in Go and PostgreSQL",
		StartDate:   date(2019, 3),
		EndDate:     date(2023, 8),
	},
	{
		CandidateId: 1,
		Position:    "Junior Developer",
		Company:     "Initech",
		Content:     "Maintained internal reporting tools",
		StartDate:   date(2017, 6),
		EndDate:     date(2019, 2),
	},
	{
		CandidateId: 2,
		Position:    "Старший инженер-программист",
		Company:     "Вектор",
		Content:     "Проектирование распределённых систем обработки данных",
		StartDate:   date(2016, 1),
		EndDate:     date(2022, 12),
	},
	{
		CandidateId: 2,
		Position:    "Инженер-программист",
		Company:     "Вектор",
		Content:     "Разработка сервисов на Java",
		StartDate:   date(2012, 9),
		EndDate:     date(2015, 12),
	},
	{
		CandidateId: 3,
		Position:    "Data Analyst",
		Company:     "Globex",
		Content:     "Built SQL dashboards and statistical reports for finance teams",
		StartDate:   date(2020, 5),
	},
	{
		CandidateId: 4,
		Position:    "Менеджер по продукту",
		Company:     "Северсталь",
		Content:     "Управление продуктовой линейкой аналитических сервисов",
		StartDate:   date(2018, 4),
		EndDate:     date(2024, 1),
	},
	{
		CandidateId: 5,
		Position:    "DevOps Engineer",
		Company:     "Acme",
		Content:     "Kubernetes clusters, CI pipelines and cloud infrastructure on AWS",
		StartDate:   date(2021, 2),
	},
}

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	flag.Parse()

	db, err := hirelens.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	added, err := pipeline.Ingest(ctx, experiences...)
	if err != nil {
		panic(err)
	}
	pipeline.Wait()

	slog.Info("seeded experience records", "count", len(added), "db", *dbPath)
}
