package timewindow

import (
	"time"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

// Resolver переводит текущее время в локальную ISO-неделю пользователя.
type Resolver struct {
	now func() time.Time
}

// NewResolver создает резолвер с системными часами.
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverWithClock создает резолвер с подменяемыми часами для тестов.
func NewResolverWithClock(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// LocalISOWeek возвращает ISO-(год, неделю) текущего момента в часовом поясе
// пользователя. Неверный IANA-идентификатор не является ошибкой: резолвер
// молча откатывается на UTC и никогда не падает.
func (r *Resolver) LocalISOWeek(timezone string) models.YearWeek {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}

	year, week := r.now().In(loc).ISOWeek()
	return models.YearWeek{Year: year, Week: week}
}

// IsWeekExpired сообщает, лежит ли неделя строго в прошлом относительно
// текущей локальной ISO-недели пользователя. Текущая и будущие недели не
// истекают даже за секунды до перехода недели.
func (r *Resolver) IsWeekExpired(year, week int, timezone string) bool {
	current := r.LocalISOWeek(timezone)

	if year < current.Year {
		return true
	}
	return year == current.Year && week < current.Week
}

// PreviousWeek возвращает предыдущую ISO-неделю. Переход через границу года
// считает в году 52 недели: для 53-недельных ISO-лет неделя 53 пропускается
// (унаследованная семантика, см. DESIGN.md).
func PreviousWeek(year, week int) models.YearWeek {
	if week > 1 {
		return models.YearWeek{Year: year, Week: week - 1}
	}
	return models.YearWeek{Year: year - 1, Week: 52}
}
