package middleware

import "time"

func (l *MemoryLimiter) SetClock(now func() time.Time, idleTTL time.Duration) {
	l.now = now
	l.idleTTL = idleTTL
}
