package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDueDateUnmarshal(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      string
		want    *time.Time
		wantErr bool
	}{
		{name: "date only", in: `"2026-02-19"`, want: at(time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC))},
		{name: "rfc3339", in: `"2026-02-19T10:30:00Z"`, want: at(time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC))},
		{name: "no zone", in: `"2026-02-19T10:30:00"`, want: at(time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC))},
		{name: "null", in: `null`},
		{name: "empty", in: `""`},
		{name: "garbage", in: `"next tuesday"`, wantErr: true},
		{name: "number", in: `42`, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var d DueDate
			err := json.Unmarshal([]byte(tc.in), &d)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", d.Ptr())
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := d.Ptr()
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			if got != nil && !got.Equal(*tc.want) {
				t.Fatalf("got %v want %v", *got, *tc.want)
			}
		})
	}
}

func TestTaskJSONShape(t *testing.T) {
	due := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	b, err := json.Marshal(Task{Title: "x", DueDate: NewDueDate(&due)})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if strings.Contains(s, `"id"`) || strings.Contains(s, `"taskListId"`) {
		t.Fatalf("absent ids should be omitted: %s", s)
	}
	if !strings.Contains(s, `"dueDate":"2026-02-19T00:00:00Z"`) {
		t.Fatalf("unexpected dueDate encoding: %s", s)
	}

	b, _ = json.Marshal(Task{Title: "x"})
	if !strings.Contains(string(b), `"dueDate":null`) {
		t.Fatalf("missing due date should encode as null: %s", b)
	}
}

func TestDueDateErrorKeepsParseError(t *testing.T) {
	var d DueDate
	err := json.Unmarshal([]byte(`"2026-13-45"`), &d)
	var pe *time.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a wrapped *time.ParseError, got %v", err)
	}
	if d.Ptr() != nil {
		t.Fatalf("failed parse left a due date: %v", d.Ptr())
	}
}

func TestDueDateNullClearsPreviousValue(t *testing.T) {
	set := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDueDate(&set)
	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Ptr() != nil {
		t.Fatalf("null kept %v", d.Ptr())
	}
}

func at(t time.Time) *time.Time { return &t }
