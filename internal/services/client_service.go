package services

import (
	"errors"
	"strings"

	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

var ErrClientContactRequired = errors.New("un email ou un numéro de téléphone est requis")

type ClientService struct {
	Repo     repositories.ClientRepository
	Sessions *SessionService
}

func NewClientService(repo repositories.ClientRepository, sessions *SessionService) *ClientService {
	return &ClientService{Repo: repo, Sessions: sessions}
}

// CreateClientAndSession is the public entry point of the flow: it looks the
// client up by email, then by phone, creating one only when neither matches,
// and then opens (or reuses) a session for them. clientCreated drives the
// 201-vs-200 distinction at the handler.
func (s *ClientService) CreateClientAndSession(req models.ClientCreateRequest) (client *models.Client, session *models.Session, clientCreated bool, sessionReused bool, err error) {
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if email == "" && phone == "" {
		return nil, nil, false, false, ErrClientContactRequired
	}

	if email != "" {
		client, err = s.Repo.GetByEmail(email)
		if err != nil {
			return nil, nil, false, false, err
		}
	}
	if client == nil && phone != "" {
		client, err = s.Repo.GetByPhone(phone)
		if err != nil {
			return nil, nil, false, false, err
		}
	}

	if client == nil {
		client = &models.Client{}
		if email != "" {
			client.Email = &email
		}
		if phone != "" {
			client.Phone = &phone
		}
		if err = s.Repo.Create(client); err != nil {
			return nil, nil, false, false, err
		}
		clientCreated = true
	}

	session, sessionReused, err = s.Sessions.CreateSession(client.ID)
	if err != nil {
		return nil, nil, false, false, err
	}
	return client, session, clientCreated, sessionReused, nil
}

func (s *ClientService) GetClientByID(id int) (*models.Client, error) {
	client, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *ClientService) ListClients(limit, offset int) ([]*models.Client, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(limit, offset)
}

func (s *ClientService) DeleteClient(id int) error {
	client, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}
	return s.Repo.Delete(id)
}
