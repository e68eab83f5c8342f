package electclient

import (
	"testing"
	"time"
)

func Test_AgeYears(t *testing.T) {
	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	if got := AgeYears("January 2, 2000", now); got != 26 {
		t.Fatalf("expected 26, got %d", got)
	}

	//birthday later in the year has not been reached yet
	if got := AgeYears("December 25, 2000", now); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}

	//birthday today counts the full year
	if got := AgeYears("August 31, 2000", now); got != 26 {
		t.Fatalf("expected 26, got %d", got)
	}
}

func Test_AgeYearsInvalidInput(t *testing.T) {
	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	//unparseable input maps to the 0 sentinel, never an error value
	if got := AgeYears("not a date", now); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	if got := AgeYears("", now); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	//a birth date in the future clamps to 0
	if got := AgeYears("January 2, 2030", now); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func Test_IsDateOfBirth(t *testing.T) {
	if !IsDateOfBirth("January 2, 2000") {
		t.Fatal("expected a match for January 2, 2000")
	}

	if !IsDateOfBirth("Sep 5, 1985") {
		t.Fatal("expected a match for Sep 5, 1985")
	}

	if IsDateOfBirth("2000-01-02") {
		t.Fatal("expected no match for an iso date")
	}
}
