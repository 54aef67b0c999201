package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
)

type ContractorUseCase struct {
	base
}

type ContractorInput struct {
	Name            string  `json:"name"`
	Company         *string `json:"company"`
	Role            *string `json:"role"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	InsurancePolicy *string `json:"insurance_policy"`
}

func (uc *ContractorUseCase) List(ctx context.Context, a Actor, search string) ([]models.Contractor, error) {
	contractors, err := uc.db.ContractorRepo().List(ctx, a.AccountID,
		database.WhereContains("name", search),
		database.OrderBy("name"),
	)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "contractors", err)
	}
	return contractors, nil
}

func (uc *ContractorUseCase) Get(ctx context.Context, a Actor, id uuid.UUID) (*models.Contractor, error) {
	contractor, err := uc.db.ContractorRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "contractor", err)
	}
	return contractor, nil
}

func (uc *ContractorUseCase) Create(ctx context.Context, a Actor, in ContractorInput) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := applyContractorInput(&contractor, in); err != nil {
		return nil, err
	}
	if err := uc.db.ContractorRepo().Create(ctx, a.AccountID, &contractor); err != nil {
		return nil, errs.NewDatabaseError("create", "contractor", err)
	}
	return &contractor, nil
}

func (uc *ContractorUseCase) Update(ctx context.Context, a Actor, id uuid.UUID, in ContractorInput) (*models.Contractor, error) {
	contractor, err := uc.db.ContractorRepo().Get(ctx, a.AccountID, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "contractor", err)
	}
	if err := applyContractorInput(contractor, in); err != nil {
		return nil, err
	}
	if err := uc.db.ContractorRepo().Update(ctx, a.AccountID, contractor); err != nil {
		return nil, errs.NewDatabaseError("update", "contractor", err)
	}
	return contractor, nil
}

func (uc *ContractorUseCase) Delete(ctx context.Context, a Actor, id uuid.UUID) error {
	if err := uc.db.ContractorRepo().Delete(ctx, a.AccountID, id); err != nil {
		return errs.NewDatabaseError("delete", "contractor", err)
	}
	return nil
}

func applyContractorInput(c *models.Contractor, in ContractorInput) error {
	name, err := required("name", in.Name)
	if err != nil {
		return err
	}
	if err := maxLength("name", name, 255); err != nil {
		return err
	}
	c.Name = name
	c.Company = trimmed(in.Company)
	c.Role = trimmed(in.Role)
	c.Email = trimmed(in.Email)
	c.Phone = trimmed(in.Phone)
	c.InsurancePolicy = trimmed(in.InsurancePolicy)
	return nil
}
