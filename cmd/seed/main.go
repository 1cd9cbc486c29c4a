package main

import (
	"context"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/hackgods/brokerage-crm/internal/appointment"
	"github.com/hackgods/brokerage-crm/internal/config"
	"github.com/hackgods/brokerage-crm/internal/db"
	"github.com/hackgods/brokerage-crm/internal/logging"
)

var (
	calendars = []string{"prospection", "signature", "rdv-clients", "suivi", "relances"}
	durations = []int{15, 30, 45, 60, 90}
)

func main() {
	count := flag.Int("count", 300, "number of appointments to create")
	weeks := flag.Int("weeks", 4, "number of weeks to spread appointments over, starting this Monday")
	advisors := flag.Int("advisors", 8, "size of the collaborator pool")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := logging.New(cfg.IsProduction())
	defer func() { _ = logger.Sync() }()

	logger.Info("seed starting", zap.Int("count", *count), zap.Int("weeks", *weeks), zap.Uint64("seed", *seed))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if _, err := db.Migrate(context.Background(), pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
	}

	faker := gofakeit.New(*seed)
	repo := appointment.NewPgRepository(pool)

	team := make([]string, *advisors)
	for i := range team {
		team[i] = faker.FirstName()
	}

	start := appointment.StartOfWeek(time.Now())
	for i := 0; i < *count; i++ {
		a := fakeAppointment(faker, cfg, start, *weeks, team)
		if _, err := repo.Create(context.Background(), a); err != nil {
			logger.Fatal("create appointment", zap.Error(err), zap.Int("index", i))
		}
		if (i+1)%100 == 0 {
			logger.Info("appointments seeded", zap.Int("done", i+1), zap.Int("total", *count))
		}
	}

	logger.Info("seed complete")
}

// fakeAppointment picks a weekday inside the configured working hours, on a
// quarter-hour boundary. Appointments may overlap.
func fakeAppointment(faker *gofakeit.Faker, cfg config.Config, start time.Time, weeks int, team []string) appointment.Appointment {
	day := start.AddDate(0, 0, 7*faker.Number(0, max(weeks, 1)-1)+faker.Number(0, 4))
	duration := durations[faker.Number(0, len(durations)-1)]

	latest := max(cfg.DayEnd-duration, cfg.DayStart)
	clock := cfg.DayStart + 15*faker.Number(0, (latest-cfg.DayStart)/15)

	var collaborators []string
	if len(team) > 0 {
		for n := faker.Number(0, 2); n > 0; n-- {
			collaborators = append(collaborators, team[faker.Number(0, len(team)-1)])
		}
	}

	return appointment.Appointment{
		Date:          day,
		Time:          appointment.FormatClock(clock),
		Duration:      duration,
		CalendarID:    calendars[faker.Number(0, len(calendars)-1)],
		LeadName:      faker.Name(),
		Collaborators: collaborators,
	}
}
