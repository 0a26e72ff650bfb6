// Package nepali converts Gregorian (AD) dates to Bikram Sambat (BS) dates.
//
// The conversion is table-driven: bsMonthDays holds the length of every BS
// month between 2000 BS and 2090 BS, anchored at 2000-01-01 BS =
// 1943-04-14 AD. Dates outside the table return ErrOutOfRange.
package nepali

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned for AD dates the conversion table does not cover.
var ErrOutOfRange = errors.New("date out of supported range")

const firstBSYear = 2000

// anchor is 2000-01-01 BS in the Gregorian calendar.
var anchor = time.Date(1943, time.April, 14, 0, 0, 0, 0, time.UTC)

// bsMonthDays[y-firstBSYear][m-1] is the number of days in month m of BS year y.
var bsMonthDays = [][12]int{
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2000
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2005
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2010
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2015
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2020
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2025
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 31, 32, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2030
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{30, 32, 31, 32, 31, 31, 29, 30, 30, 29, 29, 31}, // 2035
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2040
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2045
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2050
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2055
	{31, 31, 32, 31, 32, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2060
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{30, 32, 31, 32, 31, 31, 29, 30, 29, 30, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2065
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 29, 31},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2070
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31},
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2075
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2080
	{31, 31, 32, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30},
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30},
	{31, 32, 31, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2085
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	{31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 30},
	{30, 31, 32, 32, 30, 31, 30, 30, 29, 30, 30, 30},
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2090
}

// Date is a Bikram Sambat calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// FromGregorian converts an AD date to its BS equivalent.
func FromGregorian(t time.Time) (Date, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Sub(anchor).Hours() / 24)
	if offset < 0 {
		return Date{}, ErrOutOfRange
	}

	for yi, months := range bsMonthDays {
		for mi, days := range months {
			if offset < days {
				return Date{Year: firstBSYear + yi, Month: mi + 1, Day: offset + 1}, nil
			}
			offset -= days
		}
	}
	return Date{}, ErrOutOfRange
}

// Convert converts an AD date to a BS date string (YYYY-MM-DD).
func Convert(t time.Time) (string, error) {
	d, err := FromGregorian(t)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
