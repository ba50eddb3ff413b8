package sheetforge

import "time"

// excelEpoch is 1899-12-31, the day before Excel's day 1 (1900-01-01).
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

const millisecondsPerDay = 24 * 60 * 60 * 1000

// TimeToExcelSerial converts a time.Time to the Excel serial date-time
// double, reproducing the spurious 1900-02-29 leap day: Lotus 1-2-3 (and
// Excel after it) treats 1900 as a leap year, so every date on or after
// 1900-03-01 is one day further along the serial axis than a correct
// Gregorian calculation would place it.
func TimeToExcelSerial(t time.Time) float64 {
	days := int(t.Truncate(24*time.Hour).Sub(excelEpoch).Hours() / 24)
	msInDay := (t.Hour()*3600+t.Minute()*60+t.Second())*1000 + t.Nanosecond()/1e6
	if days > 59 {
		days++
	}
	return float64(days) + float64(msInDay)/float64(millisecondsPerDay)
}

// DateToExcelSerial converts a date-only value (y, m, d) to an integer
// Excel serial, applying the same 1900 leap-year quirk.
func DateToExcelSerial(year int, month time.Month, day int) float64 {
	return TimeToExcelSerial(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// TimeOfDayToExcelSerial converts a time-only value to a fractional serial
// in [0, 1).
func TimeOfDayToExcelSerial(hour, minute, second, nanosecond int) float64 {
	msInDay := (hour*3600+minute*60+second)*1000 + nanosecond/1e6
	return float64(msInDay) / float64(millisecondsPerDay)
}

// ExcelSerialToTime is the inverse of TimeToExcelSerial, used by callers
// that need to round-trip a cached formula result or validate a write.
func ExcelSerialToTime(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	if days > 60 {
		days--
	}
	t := excelEpoch.AddDate(0, 0, days)
	ms := int64(round(frac * millisecondsPerDay))
	return t.Add(time.Duration(ms) * time.Millisecond)
}
