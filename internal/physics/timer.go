package physics

import "time"

// DefaultTickInterval - шаг физики по умолчанию
const DefaultTickInterval = 25 * time.Millisecond

// maxCatchUp ограничивает число тиков за один Advance после долгой паузы
const maxCatchUp = 8

// FixedTimer отмеряет тики фиксированной длины по реальному времени кадров
type FixedTimer struct {
	interval time.Duration
	elapsed  time.Duration
	dropped  uint64
}

// NewFixedTimer создаёт таймер; неположительный интервал заменяется на DefaultTickInterval
func NewFixedTimer(interval time.Duration) *FixedTimer {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &FixedTimer{interval: interval}
}

// Interval возвращает длину тика
func (t *FixedTimer) Interval() time.Duration { return t.interval }

// Advance добавляет прошедшее время и возвращает число сработавших тиков
func (t *FixedTimer) Advance(dt time.Duration) int {
	if dt > 0 {
		t.elapsed += dt
	}
	n := int(t.elapsed / t.interval)
	t.elapsed -= time.Duration(n) * t.interval
	if n > maxCatchUp {
		t.dropped += uint64(n - maxCatchUp)
		n = maxCatchUp
	}
	return n
}

// Fraction - доля текущего тика, прошедшая после последнего срабатывания, в [0, 1)
func (t *FixedTimer) Fraction() float32 {
	return float32(t.elapsed) / float32(t.interval)
}

// Dropped - сколько тиков пропущено из-за ограничения догонки
func (t *FixedTimer) Dropped() uint64 { return t.dropped }
