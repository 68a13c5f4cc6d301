package processor

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// ReconcilerInterface один прогон сверки перекрестных ссылок
type ReconcilerInterface interface {
	Run(ctx context.Context) (int, error)
}

// CronScheduler запускает сверку каталога по расписанию
type CronScheduler struct {
	cron       *cron.Cron
	reconciler ReconcilerInterface
}

func NewCronScheduler(reconciler ReconcilerInterface) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:       c,
		reconciler: reconciler,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting cron scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: reconciling catalog cross-references")

		repaired, err := s.reconciler.Run(ctx)
		if err != nil {
			log.Printf("ERROR: Catalog reconciliation failed: %v", err)
			return
		}
		if repaired > 0 {
			log.Printf("Cron job completed: repaired %d document(s)", repaired)
		} else {
			log.Println("Cron job completed: catalog is consistent")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	return nil
}

func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
