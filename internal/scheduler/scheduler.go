package scheduler

import (
	"context"
	"time"
)

// BookingCompleter интерфейс сервиса автозавершения заявок
type BookingCompleter interface {
	CompleteOverdue(ctx context.Context, before time.Time) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически закрывает подтверждённые заявки с прошедшей
// датой выезда. Стороны могут не отметить завершение вручную - без
// планировщика такие заявки навсегда остались бы в confirmed
type Scheduler struct {
	completer BookingCompleter
	logger    Logger
	interval  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// New создает новый планировщик автозавершения
func New(completer BookingCompleter, interval time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		completer: completer,
		logger:    logger,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start запускает фоновый цикл планировщика
func (s *Scheduler) Start() {
	go s.run()
	s.logger.Info("scheduler: auto-completion started, interval=%s", s.interval)
}

// Stop останавливает планировщик и дожидается завершения текущего прохода
func (s *Scheduler) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("scheduler: auto-completion stopped")
}

func (s *Scheduler) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Первый проход сразу при старте, не дожидаясь тика
	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

// tick закрывает заявки с датой выезда раньше сегодняшней
// Заявки на сегодня не трогаем: выезд мог ещё не состояться
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	completed, err := s.completer.CompleteOverdue(ctx, today)
	if err != nil {
		s.logger.Error("scheduler: auto-completion pass failed: %v", err)
		return
	}

	if completed > 0 {
		s.logger.Info("scheduler: auto-completed %d overdue bookings", completed)
	}
}
