package campaign

import (
	"time"

	errors "github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/core/common/validation"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
)

type CreateCampaignDTO struct {
	CampaignName string    `json:"campaign_name"`
	Description  string    `json:"description"`
	State        string    `json:"state"`
	Duration     int       `json:"duration"`
	Price        int64     `json:"price"`
	NoOfDrivers  int       `json:"no_of_drivers"`
	StartDate    time.Time `json:"start_date"`
}

func (dto *CreateCampaignDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("campaign_name", dto.CampaignName).
		Required().
		MaxLength(255)

	validator.Field("duration", dto.Duration).
		Required().
		MinInt(7, errors.ErrCodeInvalidDuration)

	validator.Field("price", dto.Price).
		Required().
		MinInt(1, errors.ErrCodeInvalidAmount)

	validator.Field("no_of_drivers", dto.NoOfDrivers).
		Required().
		MinInt(1, errors.ErrCodeValidationFailed)

	validator.Field("start_date", dto.StartDate).
		NotPast()

	return validator.Validate()
}

type ApproveCampaignDTO struct {
	PricePerDriver    int64  `json:"price_per_driver"`
	PrintHousePhoneNo string `json:"print_house_phone_no"`
	Decision          string `json:"decision"`
}

func (dto *ApproveCampaignDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("decision", dto.Decision).
		Required().
		OneOf(campaignDatamodel.StatusApproved, campaignDatamodel.StatusRejected)

	if dto.Decision == campaignDatamodel.StatusApproved {
		validator.Field("price_per_driver", dto.PricePerDriver).
			Required().
			MinInt(1, errors.ErrCodeInvalidAmount)

		validator.Field("print_house_phone_no", dto.PrintHousePhoneNo).
			Required().
			MaxLength(32)
	}

	return validator.Validate()
}

type UploadDesignDTO struct {
	DesignURL string `json:"design_url"`
}

func (dto *UploadDesignDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("design_url", dto.DesignURL).
		Required().
		MaxLength(2048)

	return validator.Validate()
}

type DecideDesignDTO struct {
	Decision string  `json:"decision"`
	Comment  *string `json:"comment,omitempty"`
}

func (dto *DecideDesignDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("decision", dto.Decision).
		Required().
		OneOf(campaignDatamodel.DesignApprove, campaignDatamodel.DesignReject)

	if err := validator.Validate(); err != nil {
		return err
	}

	// Rejections must say why; approvals must not carry a rejection comment.
	if dto.Decision == campaignDatamodel.DesignReject && (dto.Comment == nil || *dto.Comment == "") {
		return errors.NewValidationFieldError("comment", "comment is required when rejecting a design", errors.ErrCodeReasonRequired)
	}
	if dto.Decision == campaignDatamodel.DesignApprove && dto.Comment != nil && *dto.Comment != "" {
		return errors.NewValidationFieldError("comment", "comment is not allowed when approving a design", errors.ErrCodeReasonForbidden)
	}

	return nil
}
