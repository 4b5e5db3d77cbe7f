package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"options-trader/models"
)

// Regular US equity session, Eastern time. Close is exclusive.
const (
	marketOpenMinutes  = 9*60 + 30
	marketCloseMinutes = 16 * 60
)

// MarketCalendar answers whether the US equity market is open and which
// dates are trading days. Holidays are calculated for any year, not
// hardcoded, and cached per year.
type MarketCalendar struct {
	loc    *time.Location
	logger *logrus.Logger

	// year -> map["2006-01-02"]struct{}. Compute-once per year; a racing
	// recompute stores an identical set, so overwrite is harmless.
	holidayCache sync.Map
}

// NewMarketCalendar creates a calendar pinned to America/New_York
func NewMarketCalendar() *MarketCalendar {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		logger.WithError(err).Warn("America/New_York zone data missing, falling back to fixed EST")
		loc = time.FixedZone("EST", -5*60*60)
	}

	return &MarketCalendar{
		loc:    loc,
		logger: logger,
	}
}

// IsMarketOpen reports whether the market is open right now
func (mc *MarketCalendar) IsMarketOpen() bool {
	return mc.IsMarketOpenAt(time.Now())
}

// IsMarketOpenAt reports whether the market is open at the given instant:
// a trading day, between 09:30 (inclusive) and 16:00 (exclusive) Eastern.
func (mc *MarketCalendar) IsMarketOpenAt(t time.Time) bool {
	et := t.In(mc.loc)
	if !mc.IsTradingDay(et) {
		return false
	}
	minutes := et.Hour()*60 + et.Minute()
	return minutes >= marketOpenMinutes && minutes < marketCloseMinutes
}

// IsTradingDay reports whether the date is a weekday and not a holiday.
// Only the year/month/day of the argument are considered.
func (mc *MarketCalendar) IsTradingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := mc.holidaysForYear(date.Year())[dateKey(date)]
	return !holiday
}

// NextTradingDay returns the next trading day after today
func (mc *MarketCalendar) NextTradingDay() time.Time {
	return mc.NextTradingDayAfter(time.Now().In(mc.loc))
}

// NextTradingDayAfter returns the first trading day strictly after date
func (mc *MarketCalendar) NextTradingDayAfter(date time.Time) time.Time {
	next := date.AddDate(0, 0, 1)
	for !mc.IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// SuggestNearbyExpiries scans DTEs in [max(0, requested-1), requested+5]
// and returns up to 3 that land on trading days, in ascending order.
func (mc *MarketCalendar) SuggestNearbyExpiries(requestedDTE int) []models.ExpiryOption {
	today := time.Now().In(mc.loc)

	startDTE := requestedDTE - 1
	if startDTE < 0 {
		startDTE = 0
	}
	endDTE := requestedDTE + 5

	suggestions := []models.ExpiryOption{}
	for dte := startDTE; dte <= endDTE && len(suggestions) < 3; dte++ {
		target := today.AddDate(0, 0, dte)
		if mc.IsTradingDay(target) {
			suggestions = append(suggestions, models.ExpiryOption{DTE: dte, Date: target})
		}
	}
	return suggestions
}

// ClosedReason returns a human-readable reason the market is closed right
// now, or "" if it is open.
func (mc *MarketCalendar) ClosedReason() string {
	now := time.Now().In(mc.loc)

	switch now.Weekday() {
	case time.Saturday:
		return "market is closed - it's Saturday"
	case time.Sunday:
		return "market is closed - it's Sunday"
	}

	if _, holiday := mc.holidaysForYear(now.Year())[dateKey(now)]; holiday {
		return "market is closed for a US market holiday"
	}

	minutes := now.Hour()*60 + now.Minute()
	if minutes < marketOpenMinutes {
		return "market hasn't opened yet (opens 9:30 AM ET)"
	}
	if minutes >= marketCloseMinutes {
		return "market is closed for the day (closed 4:00 PM ET)"
	}

	return ""
}

// CalculateHolidays computes all 10 NYSE holidays for a year:
// New Year's Day, MLK Day, Presidents' Day, Good Friday, Memorial Day,
// Juneteenth, Independence Day, Labor Day, Thanksgiving, Christmas.
// Fixed-date holidays shift to the nearest weekday when they fall on a
// weekend (Saturday -> Friday, Sunday -> Monday).
func (mc *MarketCalendar) CalculateHolidays(year int) []time.Time {
	holidays := []time.Time{
		observedDate(time.Date(year, time.January, 1, 0, 0, 0, 0, mc.loc)),
		nthWeekdayOfMonth(year, time.January, time.Monday, 3, mc.loc),
		nthWeekdayOfMonth(year, time.February, time.Monday, 3, mc.loc),
		goodFriday(year, mc.loc),
		lastWeekdayOfMonth(year, time.May, time.Monday, mc.loc),
		observedDate(time.Date(year, time.June, 19, 0, 0, 0, 0, mc.loc)),
		observedDate(time.Date(year, time.July, 4, 0, 0, 0, 0, mc.loc)),
		nthWeekdayOfMonth(year, time.September, time.Monday, 1, mc.loc),
		nthWeekdayOfMonth(year, time.November, time.Thursday, 4, mc.loc),
		observedDate(time.Date(year, time.December, 25, 0, 0, 0, 0, mc.loc)),
	}

	mc.logger.WithFields(logrus.Fields{
		"year":  year,
		"count": len(holidays),
	}).Debug("Calculated NYSE holidays")

	return holidays
}

// holidaysForYear returns the cached holiday set for a year, computing it
// on first use
func (mc *MarketCalendar) holidaysForYear(year int) map[string]struct{} {
	if cached, ok := mc.holidayCache.Load(year); ok {
		return cached.(map[string]struct{})
	}

	set := make(map[string]struct{})
	for _, d := range mc.CalculateHolidays(year) {
		set[dateKey(d)] = struct{}{}
	}

	actual, _ := mc.holidayCache.LoadOrStore(year, set)
	return actual.(map[string]struct{})
}

// observedDate shifts a weekend holiday to its observed weekday:
// Saturday is observed the preceding Friday, Sunday the following Monday
func observedDate(holiday time.Time) time.Time {
	switch holiday.Weekday() {
	case time.Saturday:
		return holiday.AddDate(0, 0, -1)
	case time.Sunday:
		return holiday.AddDate(0, 0, 1)
	}
	return holiday
}

// nthWeekdayOfMonth returns e.g. the 3rd Monday of January
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekdayOfMonth returns e.g. the last Monday of May
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

// goodFriday is two days before Easter Sunday
func goodFriday(year int, loc *time.Location) time.Time {
	return easterSunday(year, loc).AddDate(0, 0, -2)
}

// easterSunday computes Easter via the anonymous Gregorian algorithm,
// valid for years 1583-4099
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// dateKey formats a date as yyyy-mm-dd for holiday set membership
func dateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}
