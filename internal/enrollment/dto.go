package enrollment

import (
	errors "github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/core/common/validation"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
)

type DecideEnrollmentDTO struct {
	DriverID int64   `json:"driver_id"`
	Decision string  `json:"decision"`
	Reason   *string `json:"reason,omitempty"`
}

func (dto *DecideEnrollmentDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("driver_id", dto.DriverID).
		Required()

	validator.Field("decision", dto.Decision).
		Required().
		OneOf(enrollmentDatamodel.StatusApproved, enrollmentDatamodel.StatusRejected)

	if err := validator.Validate(); err != nil {
		return err
	}

	if dto.Decision == enrollmentDatamodel.StatusRejected && (dto.Reason == nil || *dto.Reason == "") {
		return errors.NewValidationFieldError("reason", "reason is required when rejecting an enrollment", errors.ErrCodeReasonRequired)
	}
	if dto.Decision == enrollmentDatamodel.StatusApproved && dto.Reason != nil && *dto.Reason != "" {
		return errors.NewValidationFieldError("reason", "reason is not allowed when approving an enrollment", errors.ErrCodeReasonForbidden)
	}

	return nil
}
