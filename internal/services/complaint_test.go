package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"
)

var trackingPattern = regexp.MustCompile(`^RC\d+$`)

func newTestIntake() *IntakeService {
	return NewIntakeService(NewTrackingMinter(), zap.NewNop().Sugar())
}

func TestAcknowledge_EchoesSubmission(t *testing.T) {
	svc := newTestIntake()
	body := []byte(`{"type":"AC Problem","description":"AC not working","trainNumber":"12345","seatNumber":45,"extra":{"a":true}}`)

	ack, err := svc.Acknowledge(context.Background(), body)
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if ack.Message != MsgComplaintRegistered {
		t.Fatalf("unexpected message: %q", ack.Message)
	}
	if !trackingPattern.MatchString(ack.TrackingID) {
		t.Fatalf("tracking id %q does not match RC<digits>", ack.TrackingID)
	}

	var got, want map[string]interface{}
	if err := json.Unmarshal(ack.Data, &got); err != nil {
		t.Fatalf("unmarshal echoed data: %v", err)
	}
	if err := json.Unmarshal(body, &want); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("echoed data differs:\n got  %v\n want %v", got, want)
	}
}

func TestAcknowledge_RejectsMissingFields(t *testing.T) {
	svc := newTestIntake()

	cases := map[string]string{
		"no description":    `{"type":"AC Problem"}`,
		"no type":           `{"description":"AC not working"}`,
		"neither":           `{"priority":"High"}`,
		"empty description": `{"type":"AC Problem","description":""}`,
		"empty type":        `{"type":"","description":"AC not working"}`,
		"numeric type":      `{"type":5,"description":"AC not working"}`,
		"null body":         `null`,
		"array body":        `[{"type":"x","description":"y"}]`,
		"string body":       `"complaint"`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ack, err := svc.Acknowledge(context.Background(), []byte(body))
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if ack != nil {
				t.Fatalf("expected no acknowledgment, got %+v", ack)
			}
		})
	}
}

func TestAcknowledge_WhitespaceIsNotEmpty(t *testing.T) {
	svc := newTestIntake()
	if _, err := svc.Acknowledge(context.Background(), []byte(`{"type":" ","description":" "}`)); err != nil {
		t.Fatalf("whitespace fields should pass: %v", err)
	}
}

func TestAcknowledge_MalformedPayload(t *testing.T) {
	svc := newTestIntake()
	for _, body := range []string{`{`, ``, `{"type":"x",}`, "\xff\xfe"} {
		_, err := svc.Acknowledge(context.Background(), []byte(body))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("body %q: expected ErrMalformedPayload, got %v", body, err)
		}
	}
}

func TestAcknowledge_ResubmissionGetsNewID(t *testing.T) {
	svc := newTestIntake()
	body := []byte(`{"type":"Cleanliness","description":"Dirty coach"}`)

	var prev int64
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ack, err := svc.Acknowledge(context.Background(), body)
		if err != nil {
			t.Fatalf("acknowledge %d: %v", i, err)
		}
		if seen[ack.TrackingID] {
			t.Fatalf("duplicate tracking id %s", ack.TrackingID)
		}
		seen[ack.TrackingID] = true

		n, err := ParseTrackingID(ack.TrackingID)
		if err != nil {
			t.Fatalf("parse %s: %v", ack.TrackingID, err)
		}
		if n < prev {
			t.Fatalf("tracking ids decreased: %d after %d", n, prev)
		}
		prev = n
	}
}

func TestTrackingMinter_UsesClockMillis(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	m := &TrackingMinter{now: func() time.Time { return at }}

	if got := m.Next(); got != "RC1700000000123" {
		t.Fatalf("unexpected id: %s", got)
	}
	// same millisecond: bumped past the last value
	if got := m.Next(); got != "RC1700000000124" {
		t.Fatalf("unexpected id on same tick: %s", got)
	}

	at = time.UnixMilli(1700000000500)
	if got := m.Next(); got != "RC1700000000500" {
		t.Fatalf("unexpected id after clock advanced: %s", got)
	}
}

func TestTrackingMinter_ClockStepsBack(t *testing.T) {
	at := time.UnixMilli(2000)
	m := &TrackingMinter{now: func() time.Time { return at }}
	m.Next()

	at = time.UnixMilli(1000)
	if got := m.Next(); got != "RC2001" {
		t.Fatalf("expected RC2001 after clock step back, got %s", got)
	}
}

func TestParseTrackingID(t *testing.T) {
	if n, err := ParseTrackingID("RC42"); err != nil || n != 42 {
		t.Fatalf("RC42: got %d, %v", n, err)
	}
	for _, bad := range []string{"", "RC", "42", "rc42", "RC4a2", "RC-1"} {
		if _, err := ParseTrackingID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestComplaintOptions(t *testing.T) {
	opts := ComplaintOptions()
	if len(opts.Types) != 8 || opts.Types[len(opts.Types)-1] != "Other" {
		t.Fatalf("unexpected types: %v", opts.Types)
	}
	if len(opts.Languages) != 5 || opts.Languages[0].Code != "en" {
		t.Fatalf("unexpected languages: %v", opts.Languages)
	}
}
