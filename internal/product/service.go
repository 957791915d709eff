package product

// Service provides catalog reads.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) GetByID(id string) (Product, error) {
	if id == "" {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) GetBySlug(slug string) (Product, error) {
	if slug == "" {
		return Product{}, ErrNotFound
	}
	return s.repo.GetBySlug(slug)
}

func (s *Service) List(category string) ([]Product, error) {
	return s.repo.List(category)
}
