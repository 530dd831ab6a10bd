// Package team manages team member listing and creation with the fixed role
// set.
package team

import (
	"context"
	"encoding/json"
	"strconv"

	"partner-console/internal/common/api"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/common/metrics"
	"partner-console/internal/common/validation"
	"partner-console/internal/models"
)

// Form is the team member form's working state.
type Form struct {
	Name        string
	Email       string
	Phone       string
	Role        models.Role
	ProviderIDs []int64
}

var formSchema = validation.FormSchema{
	Required: []string{"name", "email", "phone", "role"},
	Fields: map[string]validation.Field{
		"name":  {Type: "string", Label: "Name", MinLength: validation.IntPtr(2)},
		"email": {Type: "string", Label: "Email", Pattern: validation.StrPtr(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)},
		"phone": {Type: "string", Label: "Phone", MinLength: validation.IntPtr(5)},
		"role":  {Type: "string", Label: "Role", Enum: []string{"admin", "manager", "accountant", "support"}},
	},
}

type Service struct {
	client *api.Client
	log    logger.Logger
}

func NewService(client *api.Client, log logger.Logger) *Service {
	return &Service{client: client, log: log.Named("team")}
}

// List returns one page of team members.
func (s *Service) List(ctx context.Context, page int) ([]models.TeamMember, *api.Pagination, error) {
	envelope, err := s.client.GetPage(ctx, "/team", nil, page)
	if err != nil {
		return nil, nil, err
	}
	var members []models.TeamMember
	if err := json.Unmarshal(envelope.Data, &members); err != nil {
		return nil, nil, errors.NewDecodeFailedError(err)
	}
	return members, &envelope.Pagination, nil
}

// Create validates the form and posts a new team member. Validation failures
// never reach the network.
func (s *Service) Create(ctx context.Context, form Form) error {
	return s.submit(ctx, "/team", form, false)
}

// Update posts changes for an existing member with the PUT override.
func (s *Service) Update(ctx context.Context, memberID int64, form Form) error {
	return s.submit(ctx, "/team/"+strconv.FormatInt(memberID, 10), form, true)
}

func (s *Service) submit(ctx context.Context, path string, form Form, update bool) error {
	values := map[string]interface{}{
		"name":  form.Name,
		"email": form.Email,
		"phone": form.Phone,
		"role":  string(form.Role),
	}
	if result := validation.ValidateForm(values, formSchema); !result.Valid {
		metrics.SubmissionsTotal.WithLabelValues("team", "precondition_failed").Inc()
		fieldErrors := result.FieldErrors()
		return errors.NewPreconditionFailedError(result.Errors[0].Message, fieldErrors)
	}

	payload := map[string]interface{}{
		"name":      form.Name,
		"email":     form.Email,
		"phone":     form.Phone,
		"role":      string(form.Role),
		"providers": form.ProviderIDs,
	}
	if update {
		payload[api.MethodOverrideField] = api.MethodOverridePut
	}

	if err := s.client.PostJSON(ctx, path, payload, nil); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("team", "error").Inc()
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("team", "success").Inc()
	return nil
}
