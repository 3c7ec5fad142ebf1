// Package employee holds the employee record operations.
package employee

import (
	"context"
	"math"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"employee/backend/foundation/web"
	"employee/backend/internal/entity"
	"employee/backend/internal/repository/postgres"
	employeeRepo "employee/backend/internal/repository/postgres/employee"
	"employee/backend/internal/service"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	MsgNotFound    = "Employee not found"
	MsgEmailExists = "Employee with this email already exists"
)

type Repository interface {
	GetList(ctx context.Context, filter employeeRepo.Filter) ([]entity.Employee, error)
	GetByID(ctx context.Context, id int64) (entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (entity.Employee, error)
	Insert(ctx context.Context, e *entity.Employee) error
	UpdateColumns(ctx context.Context, id int64, patch employeeRepo.Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Storage persists an uploaded image and returns its public path.
type Storage interface {
	Save(file *multipart.FileHeader) (string, error)
}

// Hooks are called with image paths the service stops referencing. The
// service itself never deletes files.
type Hooks struct {
	// OnImageReplaced receives the previous path after an update stored a
	// new image.
	OnImageReplaced func(ctx context.Context, path string)
	// OnImageReleased receives the image path of a deleted employee.
	OnImageReleased func(ctx context.Context, path string)
}

type Service struct {
	repo    Repository
	storage Storage
	hooks   Hooks
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, storage Storage, hooks Hooks, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		hooks:   hooks,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]entity.Employee, error) {
	return s.repo.GetList(ctx, employeeRepo.Filter{})
}

// Search matches department and position as case-insensitive substrings.
// Empty values are ignored.
func (s *Service) Search(ctx context.Context, request SearchRequest) ([]entity.Employee, error) {
	var filter employeeRepo.Filter
	if v := trimmed(request.Department); v != nil && *v != "" {
		filter.Department = v
	}
	if v := trimmed(request.Position); v != nil && *v != "" {
		filter.Position = v
	}

	return s.repo.GetList(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id int64) (entity.Employee, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entity.Employee{}, notFound(err)
	}

	return detail, nil
}

// Create validates and stores a new employee. The image, when given, is
// stored before the record is written.
func (s *Service) Create(ctx context.Context, request CreateRequest) (entity.Employee, error) {
	trimAll(&request.FirstName, &request.LastName, &request.Email, &request.Position, &request.Department, &request.DateOfJoining)

	if err := web.ValidateStruct(&request,
		"FirstName", "LastName", "Email", "Position", "Salary", "DateOfJoining", "Department"); err != nil {
		return entity.Employee{}, err
	}

	joined, err := parseDate(*request.DateOfJoining)
	if err != nil {
		return entity.Employee{}, err
	}

	if err = checkSalary(*request.Salary); err != nil {
		return entity.Employee{}, err
	}

	email := strings.ToLower(*request.Email)

	_, err = s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return entity.Employee{}, web.NewRequestError(errors.New(MsgEmailExists), http.StatusBadRequest)
	case !errors.Is(err, postgres.ErrNotFound):
		return entity.Employee{}, err
	}

	e := entity.Employee{
		FirstName:     *request.FirstName,
		LastName:      *request.LastName,
		Email:         email,
		Position:      *request.Position,
		Salary:        *request.Salary,
		DateOfJoining: joined,
		Department:    *request.Department,
	}

	if request.ProfileImage != nil {
		path, err := s.storage.Save(request.ProfileImage)
		if err != nil {
			return entity.Employee{}, err
		}
		e.ProfileImagePath = &path
	}

	e.Touch(s.now().UTC())

	if err = s.repo.Insert(ctx, &e); err != nil {
		return entity.Employee{}, duplicate(err)
	}

	s.log.Info("employee created", zap.Int64("employee_id", e.ID))

	return e, nil
}

// Update merges the set fields of request onto the stored employee and
// refreshes updated_at. A stored image is only replaced when a new one is
// uploaded.
func (s *Service) Update(ctx context.Context, id int64, request UpdateRequest) error {
	trimAll(&request.FirstName, &request.LastName, &request.Email, &request.Position, &request.Department, &request.DateOfJoining)

	if err := rejectEmpty(map[string]*string{
		"first_name":      request.FirstName,
		"last_name":       request.LastName,
		"email":           request.Email,
		"position":        request.Position,
		"department":      request.Department,
		"date_of_joining": request.DateOfJoining,
	}); err != nil {
		return err
	}

	patch := employeeRepo.Patch{
		FirstName:  request.FirstName,
		LastName:   request.LastName,
		Position:   request.Position,
		Salary:     request.Salary,
		Department: request.Department,
	}

	if patch.Salary != nil {
		if err := checkSalary(*patch.Salary); err != nil {
			return err
		}
	}

	if request.DateOfJoining != nil {
		joined, err := parseDate(*request.DateOfJoining)
		if err != nil {
			return err
		}
		patch.DateOfJoining = &joined
	}

	if request.Email != nil {
		email := strings.ToLower(*request.Email)

		other, err := s.repo.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != id:
			return web.NewRequestError(errors.New(MsgEmailExists), http.StatusBadRequest)
		case err != nil && !errors.Is(err, postgres.ErrNotFound):
			return err
		}
		patch.Email = &email
	}

	var previousImage *string
	if request.ProfileImage != nil {
		// Look the record up first so an unknown id does not leave a stored file.
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		previousImage = current.ProfileImagePath

		path, err := s.storage.Save(request.ProfileImage)
		if err != nil {
			return err
		}
		patch.ProfileImagePath = &path
	}

	patch.UpdatedAt = s.now().UTC()

	found, err := s.repo.UpdateColumns(ctx, id, patch)
	if err != nil {
		return duplicate(err)
	}
	if !found {
		return web.NewRequestError(errors.New(MsgNotFound), http.StatusNotFound)
	}

	if previousImage != nil && s.hooks.OnImageReplaced != nil {
		s.hooks.OnImageReplaced(ctx, *previousImage)
	}

	return nil
}

// Delete removes the employee. Its image, if any, is handed to the
// OnImageReleased hook.
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return web.NewRequestError(errors.New(MsgNotFound), http.StatusNotFound)
	}

	if current.ProfileImagePath != nil && s.hooks.OnImageReleased != nil {
		s.hooks.OnImageReleased(ctx, *current.ProfileImagePath)
	}

	s.log.Info("employee deleted", zap.Int64("employee_id", id))

	return nil
}

func (s *Service) Export(ctx context.Context) ([]byte, error) {
	list, err := s.repo.GetList(ctx, employeeRepo.Filter{})
	if err != nil {
		return nil, err
	}

	return service.ExportEmployees(list)
}

func (s *Service) QRCode(ctx context.Context, id int64) ([]byte, error) {
	detail, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return service.QRCode(detail)
}

func (s *Service) BadgeSheet(ctx context.Context) ([]byte, error) {
	list, err := s.repo.GetList(ctx, employeeRepo.Filter{})
	if err != nil {
		return nil, err
	}

	return service.BadgeSheet(list)
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if d, err := date.ParseDate(raw); err == nil {
		return d.ToTime(), nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, web.NewRequestError(
		errors.Errorf("invalid date_of_joining %q, expected YYYY-MM-DD", raw),
		http.StatusBadRequest,
	)
}

func checkSalary(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return web.NewRequestError(errors.New("salary must be a finite number"), http.StatusBadRequest)
	}
	if v < 0 {
		return web.NewRequestError(errors.New("salary must not be negative"), http.StatusBadRequest)
	}

	return nil
}

func notFound(err error) error {
	if errors.Is(err, postgres.ErrNotFound) {
		return web.NewRequestError(errors.New(MsgNotFound), http.StatusNotFound)
	}

	return err
}

func duplicate(err error) error {
	if errors.Is(err, postgres.ErrDuplicateEmail) {
		return web.NewRequestError(errors.New(MsgEmailExists), http.StatusBadRequest)
	}

	return err
}

func rejectEmpty(fields map[string]*string) error {
	var empty []string
	for name, v := range fields {
		if v != nil && *v == "" {
			empty = append(empty, name)
		}
	}

	if len(empty) == 0 {
		return nil
	}

	sort.Strings(empty)

	return web.NewRequestError(
		errors.New("fields must not be empty: "+strings.Join(empty, ", ")),
		http.StatusBadRequest,
	)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}

	t := strings.TrimSpace(*v)
	return &t
}

func trimAll(fields ...**string) {
	for _, f := range fields {
		*f = trimmed(*f)
	}
}
