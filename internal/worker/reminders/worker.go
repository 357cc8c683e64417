package reminders

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Worker периодический свип напоминаний о предстоящих бронированиях.
//
// Каждый проход ищет подтвержденные бронирования, до начала которых осталось
// около 24 часов или около 2 часов, и которым напоминание соответствующего
// порога еще не отправлялось. Допуск вокруг порога поглощает дрейф интервала
// свипа, флаг в БД гарантирует не более одного напоминания на порог.
type Worker struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	loc          *time.Location
	interval     time.Duration
	tolerance    time.Duration
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger

	// single-flight: параллельные запуски свипа схлопываются в один
	inFlight atomic.Bool
	pending  atomic.Bool
}

// NewWorker создает новый экземпляр воркера напоминаний.
// metrics может быть nil.
func NewWorker(
	bookingRepo BookingRepository,
	notifier Notifier,
	loc *time.Location,
	interval, tolerance time.Duration,
	metrics MetricsCollector,
	logger Logger,
) *Worker {
	if interval <= 0 {
		interval = domain.DefaultSweepInterval
	}
	if tolerance <= 0 {
		tolerance = domain.DefaultReminderTolerance
	}
	return &Worker{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		loc:          loc,
		interval:     interval,
		tolerance:    tolerance,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Run запускает цикл свипа до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Reminders: worker started, interval=%s, tolerance=%s", w.interval, w.tolerance)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Первый проход сразу, не дожидаясь первого тика
	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminders: worker stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход свипа. Если проход уже идет, запрос
// запоминается и выполняется одним дополнительным проходом после текущего
// (coalescing), лишние запросы схлопываются.
func (w *Worker) Sweep(ctx context.Context) {
	if !w.inFlight.CompareAndSwap(false, true) {
		w.pending.Store(true)
		return
	}
	defer w.inFlight.Store(false)

	for {
		w.runOnce(ctx, w.timeProvider.Now())
		if !w.pending.CompareAndSwap(true, false) {
			return
		}
	}
}

// runOnce обрабатывает оба порога для момента времени now
func (w *Worker) runOnce(ctx context.Context, now time.Time) {
	started := time.Now()

	sent := 0
	sent += w.sweepThreshold(ctx, now, domain.Reminder24h, 24*time.Hour)
	sent += w.sweepThreshold(ctx, now, domain.Reminder2h, 2*time.Hour)

	elapsed := time.Since(started)
	if w.metrics != nil {
		w.metrics.ObserveReminderSweep(elapsed)
	}
	if sent > 0 {
		w.logger.Info("Reminders: sweep finished, sent=%d, took=%s", sent, elapsed)
	}
}

// sweepThreshold отправляет напоминания одного порога.
// Ошибка по одному бронированию не прерывает проход: флаг не ставится,
// следующий свип попробует снова, пока бронирование внутри окна допуска.
func (w *Worker) sweepThreshold(ctx context.Context, now time.Time, threshold domain.ReminderThreshold, lead time.Duration) int {
	from := now.Add(lead - w.tolerance)
	to := now.Add(lead + w.tolerance)

	due, err := w.bookingRepo.DueForReminder(ctx, threshold, from, to)
	if err != nil {
		w.logger.Error("Reminders: failed to list due bookings for threshold=%s: %v", threshold, err)
		return 0
	}

	sent := 0
	for _, booking := range due {
		if err := w.notifier.SendMessage(ctx, booking.UserID, w.formatReminder(booking, threshold)); err != nil {
			w.logger.Error("Reminders: failed to send %s reminder for booking id=%d: %v",
				threshold, booking.ID, err)
			w.observeReminder(threshold, "error")
			continue
		}

		if err := w.bookingRepo.MarkReminderSent(ctx, booking.ID, threshold); err != nil {
			// Сообщение ушло, а флаг не записан: возможен дубль на следующем
			// свипе. Дубль безопаснее потерянного напоминания.
			w.logger.Error("Reminders: failed to mark %s reminder sent for booking id=%d: %v",
				threshold, booking.ID, err)
			w.observeReminder(threshold, "error")
			continue
		}

		w.observeReminder(threshold, "success")
		sent++
	}

	return sent
}

func (w *Worker) observeReminder(threshold domain.ReminderThreshold, status string) {
	if w.metrics != nil {
		w.metrics.ObserveReminderSent(string(threshold), status)
	}
}

// formatReminder собирает текст напоминания на русском языке
func (w *Worker) formatReminder(booking *domain.Booking, threshold domain.ReminderThreshold) string {
	startLocal := booking.StartAt.In(w.loc)

	if threshold == domain.Reminder24h {
		return fmt.Sprintf("Напоминание: завтра в %s вы записаны на «%s». Пост №%d. Будем вас ждать!",
			startLocal.Format(domain.TimeFormat), booking.ServiceName, booking.PostNumber)
	}

	return fmt.Sprintf("Напоминание: через 2 часа, в %s, вы записаны на «%s». Пост №%d. До встречи!",
		startLocal.Format(domain.TimeFormat), booking.ServiceName, booking.PostNumber)
}
