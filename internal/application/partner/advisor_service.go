package partner

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/brokerage/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AdvisorService handles advisor accounts and authentication
type AdvisorService struct {
	advisors partner.AdvisorRepository
	jwt      *auth.JWTService
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// NewAdvisorService creates a new AdvisorService
func NewAdvisorService(advisors partner.AdvisorRepository, jwt *auth.JWTService, res *resolver.Resolver, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{advisors: advisors, jwt: jwt, resolver: res, logger: logger}
}

// Register creates a new advisor account. The username must be free.
func (s *AdvisorService) Register(ctx context.Context, req RegisterAdvisorRequest) (*AdvisorResponse, error) {
	existing, err := s.advisors.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewAlreadyExists("advisor", req.Username)
	}

	advisor, err := partner.NewAdvisor(req.Username, req.FullName, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.advisors.Insert(ctx, advisor); err != nil {
		return nil, err
	}

	s.logger.Info("advisor registered",
		zap.String("advisor_id", advisor.ID),
		zap.String("username", advisor.Username))
	return toAdvisorResponse(advisor), nil
}

// Login authenticates an advisor and issues a token. Failed credentials and
// deactivated accounts both come back unauthorized; the caller learns nothing
// about which it was.
func (s *AdvisorService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	advisor, err := s.advisors.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if advisor == nil || !advisor.CheckPassword(req.Password) || !advisor.Active {
		return nil, shared.ErrUnauthorized
	}

	issued, err := s.jwt.Issue(advisor.ID, advisor.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("advisor logged in", zap.String("advisor_id", advisor.ID))
	return &LoginResponse{
		Token:     issued.Token,
		TokenType: issued.TokenType,
		ExpiresAt: issued.ExpiresAt,
		Advisor:   *toAdvisorResponse(advisor),
	}, nil
}

// Get returns one advisor by ID
func (s *AdvisorService) Get(ctx context.Context, id string) (*AdvisorResponse, error) {
	advisor, err := s.resolver.Advisor(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAdvisorResponse(advisor), nil
}

// List returns advisor accounts
func (s *AdvisorService) List(ctx context.Context, offset, limit int) ([]AdvisorResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	advisors, err := s.advisors.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]AdvisorResponse, 0, len(advisors))
	for i := range advisors {
		responses = append(responses, *toAdvisorResponse(&advisors[i]))
	}
	return responses, nil
}

// Activate re-enables a deactivated advisor account
func (s *AdvisorService) Activate(ctx context.Context, id string) (*AdvisorResponse, error) {
	advisor, err := s.resolver.Advisor(ctx, id)
	if err != nil {
		return nil, err
	}

	advisor.Activate()
	if err := s.advisors.Save(ctx, advisor); err != nil {
		return nil, err
	}
	return toAdvisorResponse(advisor), nil
}

// Deactivate disables an advisor account without removing it
func (s *AdvisorService) Deactivate(ctx context.Context, id string) (*AdvisorResponse, error) {
	advisor, err := s.resolver.Advisor(ctx, id)
	if err != nil {
		return nil, err
	}

	advisor.Deactivate()
	if err := s.advisors.Save(ctx, advisor); err != nil {
		return nil, err
	}

	s.logger.Info("advisor deactivated", zap.String("advisor_id", id))
	return toAdvisorResponse(advisor), nil
}
