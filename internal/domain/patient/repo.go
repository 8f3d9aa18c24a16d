package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, patientID string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	UpdateStatus(ctx context.Context, patientID, status string) error
	ListAdmittedWithScores(ctx context.Context) ([]*AdmittedPatient, error)
}
