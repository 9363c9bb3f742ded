package ui

import (
	"strings"
	"testing"
)

func TestValidateSessionAddInput(t *testing.T) {
	tests := []struct {
		name   string
		in     sessionAddInput
		errMsg string
	}{
		{name: "valid", in: sessionAddInput{TaskID: 1, Start: "09:00", End: "09:50"}},
		{name: "valid late night", in: sessionAddInput{TaskID: 1, Start: "23:50", End: "01:50", Color: "pink"}},
		{name: "missing task", in: sessionAddInput{Start: "09:00", End: "09:50"}, errMsg: "task is a required field"},
		{name: "off grid", in: sessionAddInput{TaskID: 1, Start: "09:00", End: "09:55"}, errMsg: "--end must be HH:MM"},
		{name: "before day start", in: sessionAddInput{TaskID: 1, Start: "05:50", End: "06:10"}, errMsg: "--start must be HH:MM"},
		{name: "bad color", in: sessionAddInput{TaskID: 1, Start: "09:00", End: "09:50", Color: "teal"}, errMsg: "--color must be one of red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.in)
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	err := validateInput(sessionAddInput{TaskID: 1, Start: "9am", End: "10am", Color: "teal"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"--start", "--end", "--color"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateSessionEditInput(t *testing.T) {
	if err := validateInput(sessionEditInput{ID: 3, Color: "Pink"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := validateInput(sessionEditInput{Color: "red"})
	if err == nil || !strings.Contains(err.Error(), "session_id") {
		t.Errorf("zero id error = %v, want it to name session_id", err)
	}
	if strings.Contains(err.Error(), "--id") {
		t.Errorf("error %q names a flag the command does not have", err)
	}
}

func TestValidateTaskAddInput(t *testing.T) {
	if err := validateInput(taskAddInput{Title: "Fractions", Subject: "math"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateInput(taskAddInput{Title: " \t"}); err == nil || !strings.Contains(err.Error(), "title cannot be blank") {
		t.Errorf("blank title error = %v", err)
	}
	if err := validateInput(taskAddInput{Title: strings.Repeat("x", 121)}); err == nil {
		t.Error("expected error for long title")
	}
}
