// Package dates normalizes the whole-day rental ranges used across the
// catalog and booking flows. A rental day runs from 00:00:00 on the pickup
// date through the last nanosecond of the return date, all in UTC.
package dates

import (
	"errors"
	"fmt"
	"time"
)

const DayFormat = "2006-01-02"

var (
	ErrInvalidFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrEmptyRange    = errors.New("return date must be after pickup date")
)

// ParseDay parses a calendar date at midnight UTC.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidFormat, value)
	}
	return t.UTC(), nil
}

// ParseRange parses a pickup/return pair and widens it to whole days:
// pickup snaps to the start of its day, return to the end of its day.
// A range where return does not fall after pickup is rejected, so
// same-day rentals need distinct calendar dates.
func ParseRange(pickupStr, returnStr string) (pickup, ret time.Time, err error) {
	pickup, err = ParseDay(pickupStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	ret, err = ParseDay(returnStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !ret.After(pickup) {
		return time.Time{}, time.Time{}, ErrEmptyRange
	}

	ret = ret.Add(24*time.Hour - time.Nanosecond)
	return pickup, ret, nil
}

// Days counts billable days in a range normalized by ParseRange. The
// end-of-day widening on the return date adds just under a day, so plain
// truncation lands on the calendar-day difference: a pickup on the 1st
// returned on the 2nd bills one day.
func Days(pickup, ret time.Time) int {
	days := int(ret.Sub(pickup) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}
