package usecase

import (
	"context"
	"fmt"

	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"
)

// VacancyServiceArgs contains the mandatory arguments for the VacancyService.
type VacancyServiceArgs struct {
	// Repository supplies the vacancy snapshot.
	Repository ports.VacancyRepository
}

// NewVacancyService creates a new VacancyService.
func NewVacancyService(args VacancyServiceArgs) *VacancyService {
	return &VacancyService{repository: args.Repository}
}

// VacancyService gathers the browse side of the dashboard: loading the
// snapshot and narrowing it by a facet selection.
type VacancyService struct {
	repository ports.VacancyRepository
}

// ListVacancies loads the snapshot and applies the facet selection to it.
// Filtering an empty snapshot or applying an all-empty selection is not an
// error; it simply returns what the repository supplied.
func (s *VacancyService) ListVacancies(ctx context.Context, args model.ListVacanciesArgs) (*model.ListVacanciesResponse, error) {
	vacancies, err := s.repository.ListVacancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing vacancies from repository: %w", err)
	}

	return &model.ListVacanciesResponse{
		Vacancies: FilterVacancies(vacancies, args.Selection),
	}, nil
}

// GetVacancy returns a single posting. It returns model.ErrNotFound if the
// ID does not correspond to an existing posting.
func (s *VacancyService) GetVacancy(ctx context.Context, args model.GetVacancyArgs) (*model.GetVacancyResponse, error) {
	vacancy, err := s.repository.GetVacancy(ctx, args.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting vacancy from repository: %w", err)
	}
	return &model.GetVacancyResponse{Vacancy: *vacancy}, nil
}

// Keywords returns the highlight keywords maintained alongside the snapshot.
func (s *VacancyService) Keywords(ctx context.Context) ([]string, error) {
	keywords, err := s.repository.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing keywords from repository: %w", err)
	}
	return keywords, nil
}
