package payout

import (
	errors "github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/core/common/validation"
)

type RequestPayoutDTO struct {
	CampaignID int64 `json:"campaign_id"`
}

func (dto *RequestPayoutDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("campaign_id", dto.CampaignID).
		Required()

	return validator.Validate()
}

type InitializePayoutDTO struct {
	UserID     int64   `json:"user_id"`
	EarningID  int64   `json:"earning_id"`
	CampaignID int64   `json:"campaign_id"`
	Approve    bool    `json:"approve"`
	Reason     *string `json:"reason,omitempty"`
}

func (dto *InitializePayoutDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("user_id", dto.UserID).
		Required()

	validator.Field("earning_id", dto.EarningID).
		Required()

	validator.Field("campaign_id", dto.CampaignID).
		Required()

	if err := validator.Validate(); err != nil {
		return err
	}

	if !dto.Approve && (dto.Reason == nil || *dto.Reason == "") {
		return errors.NewValidationFieldError("reason", "reason is required when declining a payout", errors.ErrCodeReasonRequired)
	}

	return nil
}

type BankDetailDTO struct {
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	RecipientCode *string `json:"recipient_code,omitempty"`
}

func (dto *BankDetailDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	validator.Field("bank_name", dto.BankName).
		Required().
		MaxLength(128)

	validator.Field("account_number", dto.AccountNumber).
		Required().
		MinLength(6).
		MaxLength(32)

	return validator.Validate()
}
