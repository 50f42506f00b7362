package proof

import (
	errors "github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/core/common/validation"
	proofDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/proof"
)

type SubmitInstallmentDTO struct {
	CampaignID int64  `json:"campaign_id"`
	MediaURL   string `json:"media_url"`
}

func (dto *SubmitInstallmentDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("campaign_id", dto.CampaignID).
		Required()

	validator.Field("media_url", dto.MediaURL).
		Required().
		MaxLength(2048)

	return validator.Validate()
}

type SubmitWeeklyDTO struct {
	CampaignID int64  `json:"campaign_id"`
	MediaURL   string `json:"media_url"`
	WeekNumber int    `json:"week_number"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (dto *SubmitWeeklyDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("campaign_id", dto.CampaignID).
		Required()

	validator.Field("media_url", dto.MediaURL).
		Required().
		MaxLength(2048)

	validator.Field("week_number", dto.WeekNumber).
		Required().
		MinInt(1, errors.ErrCodeValidationFailed).
		MaxInt(53, errors.ErrCodeValidationFailed)

	validator.Field("month", dto.Month).
		Required().
		MinInt(1, errors.ErrCodeValidationFailed).
		MaxInt(12, errors.ErrCodeValidationFailed)

	validator.Field("year", dto.Year).
		Required().
		MinInt(2020, errors.ErrCodeValidationFailed)

	return validator.Validate()
}

type DecideProofDTO struct {
	DriverID int64   `json:"driver_id"`
	Decision string  `json:"decision"`
	Reason   *string `json:"reason,omitempty"`
}

// Validate enforces the decision rule shared by both proof kinds: rejecting
// needs a reason, approving forbids one.
func (dto *DecideProofDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("decision", dto.Decision).
		Required().
		OneOf(proofDatamodel.StatusApproved, proofDatamodel.StatusRejected)

	if err := validator.Validate(); err != nil {
		return err
	}

	if dto.Decision == proofDatamodel.StatusRejected && (dto.Reason == nil || *dto.Reason == "") {
		return errors.NewValidationFieldError("reason", "reason is required when rejecting a proof", errors.ErrCodeReasonRequired)
	}
	if dto.Decision == proofDatamodel.StatusApproved && dto.Reason != nil && *dto.Reason != "" {
		return errors.NewValidationFieldError("reason", "reason is not allowed when approving a proof", errors.ErrCodeReasonForbidden)
	}

	return nil
}
