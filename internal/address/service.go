package address

import "errors"

// Service orchestrates saved-address management.

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(a SavedAddress) error {
	switch {
	case a.Name == "":
		return errors.New("name is required")
	case a.Phone == "":
		return errors.New("phone is required")
	case a.AddressLine1 == "":
		return errors.New("addressLine1 is required")
	case a.City == "":
		return errors.New("city is required")
	case a.State == "":
		return errors.New("state is required")
	case a.Pincode == "":
		return errors.New("pincode is required")
	}
	return nil
}

func (s *Service) ListByUser(userID string) ([]SavedAddress, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	return s.repo.ListByUser(userID)
}

func (s *Service) Add(addr SavedAddress) (SavedAddress, error) {
	if addr.UserID == "" {
		return SavedAddress{}, ErrNotFound
	}
	if err := validate(addr); err != nil {
		return SavedAddress{}, err
	}
	return s.repo.Add(addr)
}

func (s *Service) Update(addr SavedAddress) (SavedAddress, error) {
	if addr.UserID == "" || addr.ID <= 0 {
		return SavedAddress{}, ErrNotFound
	}
	if err := validate(addr); err != nil {
		return SavedAddress{}, err
	}
	return s.repo.Update(addr)
}

func (s *Service) Delete(userID string, addressID int) error {
	if userID == "" || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(userID, addressID)
}
