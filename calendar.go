package electclient

import (
	"regexp"
	"time"
)

//ConstDobLayout is the date-of-birth layout served by the election service
const ConstDobLayout = "January 2, 2006"

//DateOfBirthRegex matches the date-of-birth form served by the election service
const DateOfBirthRegex = `(Jan(uary)?|Feb(ruary)?|Mar(ch)?|Apr(il)?|May|Jun(e)?|Jul(y)?|Aug(ust)?|Sep(tember)?|Oct(ober)?|Nov(ember)?|Dec(ember)?)\s+\d{1,2},\s+\d{4}`

var dobPattern = regexp.MustCompile(DateOfBirthRegex)

//IsDateOfBirth checks a string is matched with the date of birth regular expression
func IsDateOfBirth(s string) bool {
	return dobPattern.MatchString(s)
}

//AgeYears returns whole years elapsed between the date of birth and now
//an unparseable date of birth returns 0 rather than propagating a fault
func AgeYears(dob string, now time.Time) int {
	bd, err := time.Parse(ConstDobLayout, dob)

	if err != nil {
		return 0
	}

	yrs := now.Year() - bd.Year()

	//not yet reached this year's birthday
	if now.Month() < bd.Month() || (now.Month() == bd.Month() && now.Day() < bd.Day()) {
		yrs--
	}

	if yrs < 0 {
		return 0
	}

	return yrs
}
