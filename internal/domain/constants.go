package domain

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Default configuration values
const (
	DefaultMaxPosts    = 1
	DefaultHorizonDays = 14 // горизонт подбора дней с доступными слотами

	// SlotStepMinutes шаг перебора кандидатов начала слота.
	// Слоты всегда начинаются на границе часа.
	SlotStepMinutes = 60
)

// Reminder sweep parameters.
// Интервал свипа и допуск связаны: допуск ±10 минут вокруг порога поглощает
// дрейф 10-минутного интервала. Уменьшение интервала без уменьшения допуска
// приводит к дублям напоминаний.
const (
	DefaultSweepInterval     = 10 * time.Minute
	DefaultReminderTolerance = 10 * time.Minute
)

// Fallback windows applied when no weekly rule exists for a day.
// Будни открыты полные сутки, выходные 09:00-23:00.
var (
	FallbackWeekdayOpen  = types.TimeString("00:00")
	FallbackWeekdayClose = types.TimeString("23:59") // трактуется как полночь следующего дня
	FallbackWeekendOpen  = types.TimeString("09:00")
	FallbackWeekendClose = types.TimeString("23:00")
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxNoteLength               = 500
	MaxCancellationReasonLength = 500
)
