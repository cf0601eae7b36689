package planner

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-03-10", Date{2024, time.March, 10}, false},
		{"2024-02-29", Date{2024, time.February, 29}, false},
		{"2023-02-29", Date{}, true},
		{"2024-3-10", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{2024, time.January, 31}

	if got := d.AddDays(1); got != (Date{2024, time.February, 1}) {
		t.Errorf("AddDays(1) = %v", got)
	}
	if got := d.AddMonths(1); got != (Date{2024, time.February, 29}) {
		t.Errorf("AddMonths(1) = %v", got)
	}
	if got := d.AddMonths(-2); got != (Date{2023, time.November, 30}) {
		t.Errorf("AddMonths(-2) = %v", got)
	}
	if !d.Before(d.AddDays(1)) {
		t.Error("expected Before to hold for the next day")
	}
	if DaysIn(2023, time.February) != 28 {
		t.Errorf("DaysIn(2023, Feb) = %d", DaysIn(2023, time.February))
	}
}

func TestDateJSON(t *testing.T) {
	task := Task{ID: "t1", Date: Date{2024, time.March, 10}, TimeSlot: "09:00 - 10:00", Name: "Study"}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Date != task.Date {
		t.Errorf("Date: got %v, want %v", decoded.Date, task.Date)
	}

	var bad Task
	if err := json.Unmarshal([]byte(`{"date":"10/03/2024"}`), &bad); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDateValid(t *testing.T) {
	tests := []struct {
		d    Date
		want bool
	}{
		{Date{2024, time.March, 10}, true},
		{Date{1, time.January, 1}, true},
		{Date{9999, time.December, 31}, true},
		{Date{}, false},
		{Date{10000, time.January, 1}, false},
		{Date{2023, time.February, 29}, false},
		{Date{2024, 13, 1}, false},
	}
	for _, tt := range tests {
		if got := tt.d.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestDateMarshalRejectsUnparsable(t *testing.T) {
	for _, d := range []Date{{}, Date{9999, time.December, 31}.AddDays(1)} {
		_, err := json.Marshal(Task{ID: "t1", Date: d})
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Marshal(%v): got %v, want ErrInvalidDate", d, err)
		}
	}
}

func TestParseDateKeepsCause(t *testing.T) {
	_, err := ParseDate("2024-02-30")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("cause dropped: %v", err)
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error should carry the parse reason: %v", err)
	}
}
