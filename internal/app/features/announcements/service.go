// internal/app/features/announcements/service.go
package announcements

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/dalemusser/schoolhub/internal/app/system/apierr"
	"github.com/dalemusser/schoolhub/internal/app/system/dates"
	"github.com/dalemusser/schoolhub/internal/app/system/docquery"
	"github.com/dalemusser/schoolhub/internal/app/system/timeouts"
	"github.com/dalemusser/schoolhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"github.com/juju/clock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AnnouncementStore is the persistence the service needs for announcements.
// Missing records are reported as mongo.ErrNoDocuments.
type AnnouncementStore interface {
	Find(ctx context.Context, filter docquery.Filter, sort docquery.Sort) ([]models.Announcement, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error)
	Insert(ctx context.Context, a models.Announcement) (models.Announcement, error)
	Update(ctx context.Context, id primitive.ObjectID, a models.Announcement) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// TeacherStore resolves teacher usernames.
type TeacherStore interface {
	GetByUsername(ctx context.Context, username string) (models.Teacher, error)
}

// Payload is the client-supplied content of an announcement.
// Length limits are counted in characters after trimming.
type Payload struct {
	Title     string  `json:"title" validate:"required,max=80"`
	Message   string  `json:"message" validate:"required,max=280"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// Error messages returned to callers.
const (
	msgAuthRequired     = "Authentication required"
	msgInvalidTeacher   = "Invalid teacher credentials"
	msgEndRequired      = "end_date is required"
	msgRange            = "start_date must be on or before end_date"
	msgInvalidID        = "Invalid announcement id"
	msgNotFound         = "Announcement not found"
	msgLoadFailed       = "Failed to load announcements"
	msgCreateFailed     = "Failed to create announcement"
	msgUpdateFailed     = "Failed to update announcement"
	msgDeleteFailed     = "Failed to delete announcement"
	msgVerifyFailed     = "Failed to verify teacher credentials"
	msgDateFormatSuffix = " must be in YYYY-MM-DD format"
)

var (
	activeSort = docquery.By("start_date", docquery.Asc).Then("created_at", docquery.Desc)
	allSort    = docquery.By("end_date", docquery.Desc).Then("start_date", docquery.Desc)
)

// Service implements listing and teacher-gated editing of announcements.
type Service struct {
	Announcements AnnouncementStore
	Teachers      TeacherStore
	Clock         clock.Clock
	Location      *time.Location
	Log           *zap.Logger

	validate *validator.Validate
}

// NewService constructs a Service. A nil clock means the wall clock, a nil
// location means time.Local, and a nil logger discards output.
func NewService(ann AnnouncementStore, teachers TeacherStore, clk clock.Clock, loc *time.Location, logger *zap.Logger) *Service {
	if clk == nil {
		clk = clock.WallClock
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Announcements: ann,
		Teachers:      teachers,
		Clock:         clk,
		Location:      loc,
		Log:           logger,
		validate:      newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ActiveFilter selects announcements visible on the given YYYY-MM-DD day:
// not yet expired, and either without a start date or already started.
func ActiveFilter(today string) docquery.Filter {
	return docquery.And(
		docquery.Gte("end_date", today),
		docquery.Or(
			docquery.Exists("start_date", false),
			docquery.Eq("start_date", nil),
			docquery.Eq("start_date", ""),
			docquery.Lte("start_date", today),
		),
	)
}

// Today returns the current calendar date in the service's time zone.
func (s *Service) Today() string {
	return dates.Today(s.Clock, s.Location)
}

// ListActive returns the announcements visible today, earliest start first
// and newest first within the same start date.
func (s *Service) ListActive(ctx context.Context) ([]models.Announcement, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.Log, "list active announcements")
	defer cancel()

	items, err := s.Announcements.Find(ctx, ActiveFilter(s.Today()), activeSort)
	if err != nil {
		return nil, s.storeFailure(msgLoadFailed, err)
	}
	return items, nil
}

// ListAll returns every announcement, latest end date first.
func (s *Service) ListAll(ctx context.Context, teacher string) ([]models.Announcement, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.Log, "list announcements")
	defer cancel()

	if _, err := s.requireTeacher(ctx, teacher); err != nil {
		return nil, err
	}
	items, err := s.Announcements.Find(ctx, docquery.All(), allSort)
	if err != nil {
		return nil, s.storeFailure(msgLoadFailed, err)
	}
	return items, nil
}

// Create validates p and stores it as a new announcement.
func (s *Service) Create(ctx context.Context, teacher string, p Payload) (models.Announcement, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.Log, "create announcement")
	defer cancel()

	a, err := s.prepare(ctx, teacher, p)
	if err != nil {
		return models.Announcement{}, err
	}

	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now

	created, err := s.Announcements.Insert(ctx, a)
	if err != nil {
		return models.Announcement{}, s.storeFailure(msgCreateFailed, err)
	}
	return created, nil
}

// Update replaces the content of announcement id with p and returns the
// stored record.
func (s *Service) Update(ctx context.Context, teacher, id string, p Payload) (models.Announcement, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.Log, "update announcement")
	defer cancel()

	a, err := s.prepare(ctx, teacher, p)
	if err != nil {
		return models.Announcement{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return models.Announcement{}, err
	}

	a.UpdatedAt = s.now()
	matched, err := s.Announcements.Update(ctx, oid, a)
	if err != nil {
		return models.Announcement{}, s.storeFailure(msgUpdateFailed, err)
	}
	if matched == 0 {
		return models.Announcement{}, apierr.NotFound(msgNotFound)
	}

	updated, err := s.Announcements.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Deleted between the update and the re-read.
		return models.Announcement{}, apierr.NotFound(msgNotFound)
	}
	if err != nil {
		return models.Announcement{}, s.storeFailure(msgUpdateFailed, err)
	}
	return updated, nil
}

// Delete removes announcement id and returns the record as it was.
func (s *Service) Delete(ctx context.Context, teacher, id string) (models.Announcement, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.Log, "delete announcement")
	defer cancel()

	if _, err := s.requireTeacher(ctx, teacher); err != nil {
		return models.Announcement{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return models.Announcement{}, err
	}

	existing, err := s.Announcements.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Announcement{}, apierr.NotFound(msgNotFound)
	}
	if err != nil {
		return models.Announcement{}, s.storeFailure(msgDeleteFailed, err)
	}

	n, err := s.Announcements.Delete(ctx, oid)
	if err != nil {
		return models.Announcement{}, s.storeFailure(msgDeleteFailed, err)
	}
	if n == 0 {
		return models.Announcement{}, apierr.NotFound(msgNotFound)
	}
	return existing, nil
}

// prepare runs the shared create/update checks in order: payload shape,
// teacher, then dates. The returned record carries trimmed content and
// canonical dates.
func (s *Service) prepare(ctx context.Context, teacher string, p Payload) (models.Announcement, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Message = strings.TrimSpace(p.Message)
	if err := s.checkPayload(p); err != nil {
		return models.Announcement{}, err
	}

	if _, err := s.requireTeacher(ctx, teacher); err != nil {
		return models.Announcement{}, err
	}

	start, end, err := parseWindow(p.StartDate, p.EndDate)
	if err != nil {
		return models.Announcement{}, err
	}

	return models.Announcement{
		Title:     p.Title,
		Message:   p.Message,
		StartDate: dates.FormatPtr(start),
		EndDate:   dates.Format(end),
	}, nil
}

func (s *Service) checkPayload(p Payload) error {
	err := s.validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierr.InvalidInput("Invalid announcement")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apierr.InvalidInput(fe.Field() + " is required")
	case "max":
		return apierr.InvalidInput(fe.Field() + " must be at most " + fe.Param() + " characters")
	}
	return apierr.InvalidInput(fe.Field() + " is invalid")
}

// requireTeacher resolves the acting teacher. Only existence is checked.
func (s *Service) requireTeacher(ctx context.Context, username string) (models.Teacher, error) {
	if username == "" {
		return models.Teacher{}, apierr.Unauthorized(msgAuthRequired)
	}
	t, err := s.Teachers.GetByUsername(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Teacher{}, apierr.Unauthorized(msgInvalidTeacher)
	}
	if err != nil {
		return models.Teacher{}, s.storeFailure(msgVerifyFailed, err)
	}
	return t, nil
}

func parseWindow(startRaw, endRaw *string) (*time.Time, time.Time, error) {
	start, err := parseOptional("start_date", startRaw)
	if err != nil {
		return nil, time.Time{}, err
	}
	end, err := parseOptional("end_date", endRaw)
	if err != nil {
		return nil, time.Time{}, err
	}
	if end == nil {
		return nil, time.Time{}, apierr.InvalidInput(msgEndRequired)
	}
	if err := dates.CheckRange(start, *end); err != nil {
		return nil, time.Time{}, apierr.InvalidInput(msgRange)
	}
	return start, *end, nil
}

func parseOptional(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := dates.Parse(*raw)
	if err != nil {
		return nil, apierr.InvalidInput(field + msgDateFormatSuffix)
	}
	return t, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apierr.InvalidInput(msgInvalidID)
	}
	return oid, nil
}

// now is the current instant at the store's millisecond precision.
func (s *Service) now() time.Time {
	return s.Clock.Now().UTC().Truncate(time.Millisecond)
}

// storeFailure logs err and hides it behind msg. Errors that are already
// classified pass through unchanged.
func (s *Service) storeFailure(msg string, err error) error {
	if _, ok := apierr.As(err); ok {
		return err
	}
	s.Log.Error(strings.ToLower(msg), zap.Error(err), zap.Stack("stack"))
	return apierr.StoreFailure(msg, err)
}
