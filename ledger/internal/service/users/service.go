package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/config"
	"github.com/Astemirdum/lending-ledger/ledger/internal/model"
	"github.com/Astemirdum/lending-ledger/pkg/circuit_breaker"
)

// Service is the read-only client to the external user directory.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.UsersHTTPServer
	cb     circuit_breaker.CircuitBreaker
}

func NewService(log *zap.Logger, cfg *config.Config) *Service {
	return &Service{
		log:    log,
		client: &http.Client{Timeout: time.Minute},
		cfg:    cfg.Users,
		cb:     circuit_breaker.New(100, time.Second, 0.2, 2),
	}
}

func (s *Service) CB() circuit_breaker.CircuitBreaker {
	return s.cb
}

func (s *Service) GetUser(ctx context.Context, userID int64) (model.User, int, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("http://%s/api/v1/users/%d", net.JoinHostPort(s.cfg.Host, s.cfg.Port), userID),
		http.NoBody)
	if err != nil {
		return model.User{}, http.StatusBadRequest, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return model.User{}, http.StatusBadRequest, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.User{}, resp.StatusCode, nil
	}

	var user model.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return model.User{}, http.StatusBadRequest, err
	}
	return user, resp.StatusCode, nil
}
