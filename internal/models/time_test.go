package models

import (
	"encoding/json"
	"testing"
)

func TestDateTimeParsesZonelessTimestamps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zone-less seconds", `"2026-03-15T09:30:00"`, "2026-03-15T09:30:00Z"},
		{"zone-less fractional", `"2026-03-15T09:30:00.123456"`, "2026-03-15T09:30:00Z"},
		{"rfc3339", `"2026-03-15T09:30:00Z"`, "2026-03-15T09:30:00Z"},
		{"rfc3339 offset", `"2026-03-15T09:30:00+09:00"`, "2026-03-15T00:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DateTime
			if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if got := d.UTC().Format("2006-01-02T15:04:05Z"); got != tt.want {
				t.Errorf("parsed = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDateTimeNullAndEmpty(t *testing.T) {
	for _, in := range []string{`null`, `""`} {
		var d DateTime
		if err := json.Unmarshal([]byte(in), &d); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", in, err)
		}
		if !d.IsZero() {
			t.Errorf("Unmarshal(%s) = %v, want zero", in, d)
		}
	}
}

func TestDateTimeRejectsGarbage(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"next tuesday"`), &d); err == nil {
		t.Error("Unmarshal accepted a non-timestamp")
	}
}

func TestDateTimeDisplay(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"2026-03-15T09:30:00"`), &d); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if got := d.Display(); got != "Mar 15, 2026 9:30 AM" {
		t.Errorf("Display() = %q", got)
	}

	var zero DateTime
	if got := zero.Display(); got != "" {
		t.Errorf("zero Display() = %q, want empty", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got := d.String(); got != "2026-12-01" {
		t.Errorf("String() = %q", got)
	}

	if _, err := ParseDate("12/01/2026"); err == nil {
		t.Error("ParseDate accepted a non-ISO date")
	}
}

func TestDateRoundTripsThroughJSON(t *testing.T) {
	var task Task
	raw := `{"id":1,"title":"x","status":"TODO","priority":"LOW","version":1,"deadline":"2026-12-01"}`
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if task.Deadline == nil || task.Deadline.String() != "2026-12-01" {
		t.Fatalf("Deadline = %v", task.Deadline)
	}

	b, err := json.Marshal(task.Deadline)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(b) != `"2026-12-01"` {
		t.Errorf("Marshal = %s", b)
	}
}

func TestNullDeadlineStaysNil(t *testing.T) {
	var task Task
	raw := `{"id":1,"title":"x","status":"TODO","priority":"LOW","version":1,"deadline":null}`
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if task.Deadline != nil {
		t.Errorf("Deadline = %v, want nil", task.Deadline)
	}
}

func TestZeroDateTimeMarshalsNull(t *testing.T) {
	b, err := json.Marshal(DateTime{})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(b) != "null" {
		t.Errorf("Marshal = %s, want null", b)
	}
}
