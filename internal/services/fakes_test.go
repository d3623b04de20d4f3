package services

import (
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"etatcivil/internal/models"
)

// In-memory repositories for service tests.

type fakeClientRepo struct {
	clients map[int]*models.Client
	nextID  int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[int]*models.Client{}}
}

func (r *fakeClientRepo) Create(c *models.Client) error {
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(id int) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByEmail(email string) (*models.Client, error) {
	for _, c := range r.clients {
		if c.Email != nil && *c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) GetByPhone(phone string) (*models.Client, error) {
	for _, c := range r.clients {
		if c.Phone != nil && *c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(limit, offset int) ([]*models.Client, error) {
	var res []*models.Client
	for _, c := range r.clients {
		cp := *c
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeClientRepo) Delete(id int) error {
	delete(r.clients, id)
	return nil
}

type fakeSessionRepo struct {
	sessions  map[int]*models.Session
	nextID    int
	createErr error
	deleted   []int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[int]*models.Session{}}
}

func (r *fakeSessionRepo) Create(s *models.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(id int) (*models.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetLiveByClient(clientID int, now time.Time) (*models.Session, error) {
	var best *models.Session
	for _, s := range r.sessions {
		if s.ClientID == clientID && s.IsLive(now) {
			if best == nil || s.CreatedAt.After(best.CreatedAt) {
				best = s
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *fakeSessionRepo) ListByClient(clientID int) ([]*models.Session, error) {
	var res []*models.Session
	for _, s := range r.sessions {
		if s.ClientID == clientID {
			cp := *s
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (r *fakeSessionRepo) List() ([]*models.Session, error) {
	var res []*models.Session
	for _, s := range r.sessions {
		cp := *s
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeSessionRepo) SupersedeAllByClient(clientID int, expiresAt time.Time) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.ClientID == clientID && s.IsActive {
			s.IsActive = false
			s.ExpiresAt = expiresAt
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) Activate(id int, expiresAt time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	s.IsActive = true
	s.ExpiresAt = expiresAt
	return nil
}

func (r *fakeSessionRepo) Delete(id int) error {
	delete(r.sessions, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeOTPRepo struct {
	otps      map[int]*models.OTP
	nextID    int
	createErr error
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: map[int]*models.OTP{}}
}

func (r *fakeOTPRepo) Create(o *models.OTP) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now()
	cp := *o
	r.otps[o.ID] = &cp
	return nil
}

func (r *fakeOTPRepo) GetCurrentBySession(sessionID int) (*models.OTP, error) {
	var best *models.OTP
	for _, o := range r.otps {
		if o.SessionID == sessionID {
			if best == nil || o.ID > best.ID {
				best = o
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *fakeOTPRepo) ExpireAllBySession(sessionID int, expiresAt time.Time) error {
	for _, o := range r.otps {
		if o.SessionID == sessionID && o.ExpiresAt.After(expiresAt) {
			o.ExpiresAt = expiresAt
		}
	}
	return nil
}

func (r *fakeOTPRepo) DeleteBySession(sessionID int) error {
	for id, o := range r.otps {
		if o.SessionID == sessionID {
			delete(r.otps, id)
		}
	}
	return nil
}

type fakeDemandeRepo struct {
	demandes map[int]*models.Demande
	nextID   int
	// createFailures injects this error on the next N Create calls, to
	// exercise the unique-violation retry path.
	createFailures int
	createErr      error
}

func newFakeDemandeRepo() *fakeDemandeRepo {
	return &fakeDemandeRepo{demandes: map[int]*models.Demande{}}
}

func (r *fakeDemandeRepo) Create(d *models.Demande) error {
	if r.createFailures > 0 {
		r.createFailures--
		return r.createErr
	}
	for _, existing := range r.demandes {
		if existing.NumeroDemande == d.NumeroDemande {
			return &pq.Error{Code: "23505"}
		}
	}
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	r.demandes[d.ID] = &cp
	return nil
}

func (r *fakeDemandeRepo) GetByID(id int) (*models.Demande, error) {
	d, ok := r.demandes[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDemandeRepo) GetByNumero(numero string) (*models.Demande, error) {
	for _, d := range r.demandes {
		if d.NumeroDemande == numero {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDemandeRepo) List(filter models.DemandeFilter, limit, offset int) ([]*models.Demande, error) {
	var res []*models.Demande
	for _, d := range r.demandes {
		if filter.ClientID != nil && d.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.TypeDocument != nil && d.TypeDocument != *filter.TypeDocument {
			continue
		}
		if len(filter.TypesDocuments) > 0 && !containsType(filter.TypesDocuments, d.TypeDocument) {
			continue
		}
		if filter.CentreID != nil && (d.CentreID == nil || *d.CentreID != *filter.CentreID) {
			continue
		}
		if filter.AgentID != nil && (d.AgentID == nil || *d.AgentID != *filter.AgentID) {
			continue
		}
		cp := *d
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *fakeDemandeRepo) Update(d *models.Demande) error {
	stored, ok := r.demandes[d.ID]
	if !ok {
		return nil
	}
	cp := *d
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now()
	r.demandes[d.ID] = &cp
	return nil
}

func (r *fakeDemandeRepo) UpdateStatus(id int, status models.StatusDemande, motif *string, centreID *int) error {
	d, ok := r.demandes[id]
	if !ok {
		return nil
	}
	d.Status = status
	if motif != nil {
		d.MotifRejet = motif
	}
	if centreID != nil {
		d.CentreID = centreID
	}
	d.UpdatedAt = time.Now()
	return nil
}

func containsType(types []models.TypeDocument, t models.TypeDocument) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func (r *fakeDemandeRepo) AssignAgent(agentID int, ids []int) ([]*models.Demande, error) {
	var res []*models.Demande
	for _, id := range ids {
		d, ok := r.demandes[id]
		if !ok {
			continue
		}
		d.AgentID = &agentID
		d.UpdatedAt = time.Now()
		cp := *d
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeDemandeRepo) LastNumeroForPrefix(prefix string) (string, error) {
	last := ""
	for _, d := range r.demandes {
		if strings.HasPrefix(d.NumeroDemande, prefix) && d.NumeroDemande > last {
			last = d.NumeroDemande
		}
	}
	return last, nil
}

func (r *fakeDemandeRepo) Delete(id int) error {
	delete(r.demandes, id)
	return nil
}

// fakeEmailService records deliveries and optionally fails them.
type fakeEmailService struct {
	otpSent    []string // "email:code"
	statusSent []string // "email:numero:status"
	fail       bool
}

func (s *fakeEmailService) SendOTPEmail(email, code string) error {
	if s.fail {
		return errFakeDelivery
	}
	s.otpSent = append(s.otpSent, email+":"+code)
	return nil
}

func (s *fakeEmailService) SendDemandeStatusEmail(email, numero string, status models.StatusDemande, motif string) error {
	if s.fail {
		return errFakeDelivery
	}
	s.statusSent = append(s.statusSent, strings.Join([]string{email, numero, string(status)}, ":"))
	return nil
}

var errFakeDelivery = &deliveryError{}

type deliveryError struct{}

func (*deliveryError) Error() string { return "smtp indisponible" }
