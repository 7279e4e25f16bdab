// Package services contains business logic layers.
// Services are called by handlers and hold no request state of their own.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/railsahayak/complaint-server/internal/metrics"
	"github.com/railsahayak/complaint-server/internal/models"
	"go.uber.org/zap"
)

// Caller-visible messages. Clients should branch on the presence of
// "error" or "trackingId", not on this text.
const (
	MsgComplaintRegistered = "Complaint registered successfully"
	MsgValidationFailed    = "Complaint type and description are required"
	MsgInternalError       = "Internal server error. Please try again later."
)

var (
	// ErrValidation means a required complaint field was missing or empty
	ErrValidation = errors.New("validation failed")
	// ErrMalformedPayload means the body could not be parsed at all
	ErrMalformedPayload = errors.New("malformed payload")
)

// TrackingPrefix starts every tracking identifier
const TrackingPrefix = "RC"

// TrackingMinter issues "RC<epoch millis>" identifiers. Values are strictly
// increasing within a process: a clock reading at or below the last issued
// value yields last+1 instead.
type TrackingMinter struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTrackingMinter creates a minter reading the wall clock
func NewTrackingMinter() *TrackingMinter {
	return &TrackingMinter{now: time.Now}
}

// Next returns a new tracking identifier
func (m *TrackingMinter) Next() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := m.now().UnixMilli()
	if ms <= m.last {
		ms = m.last + 1
	}
	m.last = ms
	return TrackingPrefix + strconv.FormatInt(ms, 10)
}

// ParseTrackingID returns the numeric part of a tracking identifier
func ParseTrackingID(id string) (int64, error) {
	if !strings.HasPrefix(id, TrackingPrefix) {
		return 0, fmt.Errorf("tracking id %q: missing %s prefix", id, TrackingPrefix)
	}
	digits := id[len(TrackingPrefix):]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("tracking id %q: suffix is not decimal", id)
	}
	return strconv.ParseInt(digits, 10, 64)
}

// IntakeService validates complaint submissions and mints tracking IDs.
// Nothing is stored: the identifier is handed back and forgotten.
type IntakeService struct {
	minter   *TrackingMinter
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewIntakeService creates a new intake service
func NewIntakeService(minter *TrackingMinter, logger *zap.SugaredLogger) *IntakeService {
	return &IntakeService{
		minter:   minter,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Acknowledge parses a raw submission body, checks the required fields and
// returns an acknowledgment echoing the body verbatim.
func (s *IntakeService) Acknowledge(ctx context.Context, body []byte) (*models.Acknowledgment, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.ComplaintsTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		metrics.ComplaintsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: body is not an object", ErrValidation)
	}

	sub := submissionFromObject(obj)
	if err := s.validate.StructCtx(ctx, &sub); err != nil {
		metrics.ComplaintsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	trackingID := s.minter.Next()
	metrics.ComplaintsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()

	s.logger.Infow("Complaint registered",
		"tracking_id", trackingID,
		"type", sub.Type,
		"priority", sub.Priority,
		"train", sub.TrainNumber,
	)

	return &models.Acknowledgment{
		Message:    MsgComplaintRegistered,
		TrackingID: trackingID,
		Data:       json.RawMessage(body),
	}, nil
}

// submissionFromObject keeps only string-valued fields. A non-string type or
// description therefore fails the required check.
func submissionFromObject(obj map[string]interface{}) models.ComplaintSubmission {
	str := func(key string) string {
		v, _ := obj[key].(string)
		return v
	}
	return models.ComplaintSubmission{
		Type:          str("type"),
		Description:   str("description"),
		Priority:      str("priority"),
		TrainNumber:   str("trainNumber"),
		CoachNumber:   str("coachNumber"),
		SeatNumber:    str("seatNumber"),
		PassengerName: str("passengerName"),
		Phone:         str("phone"),
		Email:         str("email"),
		Language:      str("language"),
	}
}

// ComplaintOptions returns the choices the intake form offers.
// Submissions are not checked against them.
func ComplaintOptions() models.ComplaintOptions {
	return models.ComplaintOptions{
		Types: []string{
			"Cleanliness",
			"Food Quality",
			"AC/Fan Problem",
			"Staff Behavior",
			"Security Issue",
			"Delay",
			"Booking Issue",
			"Other",
		},
		Priorities: []string{"High", "Medium", "Low"},
		Languages: []models.LanguageOption{
			{Code: "en", Name: "English"},
			{Code: "hi", Name: "हिंदी"},
			{Code: "bn", Name: "বাংলা"},
			{Code: "te", Name: "తెలుగు"},
			{Code: "ta", Name: "தமிழ்"},
		},
	}
}
