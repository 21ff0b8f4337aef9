package models

import (
	"time"

	"tradejournal/internal/validator"

	"github.com/google/uuid"
)

const strategyNameMaxLength = 100

// Strategy is shared across users; trades reference it optionally.
type Strategy struct {
	ID                 string
	Name               string
	Description        *string
	Parameters         Document
	PerformanceMetrics Document
	CreatedAt          time.Time
	UpdatedAt          time.Time

	strategyImageURL *string
	exampleImages    Images
}

func NewStrategy(name string) (*Strategy, error) {
	now := time.Now().UTC()
	strategy := &Strategy{
		ID:            uuid.NewString(),
		Name:          name,
		CreatedAt:     now,
		UpdatedAt:     now,
		exampleImages: Images{},
	}
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	return strategy, nil
}

func RestoreStrategy(s Strategy, imageURL *string, examples Images) (*Strategy, error) {
	if err := s.SetStrategyImage(imageURL); err != nil {
		return nil, err
	}
	if err := s.SetExampleImages(examples); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Strategy) Validate() error {
	if err := validator.ValidateRequired("name", s.Name); err != nil {
		return err
	}
	return validator.ValidateMaxLength("name", s.Name, strategyNameMaxLength)
}

func (s *Strategy) StrategyImage() *string {
	return copyString(s.strategyImageURL)
}

func (s *Strategy) SetStrategyImage(url *string) error {
	if err := validateImageURL("strategy_image_url", url); err != nil {
		return err
	}
	s.strategyImageURL = copyString(url)
	return nil
}

func (s *Strategy) ExampleImages() Images {
	return s.exampleImages.clone()
}

func (s *Strategy) SetExampleImages(images Images) error {
	if err := images.validate("example_images"); err != nil {
		return err
	}
	s.exampleImages = images.clone()
	return nil
}
