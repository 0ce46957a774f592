package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"time"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
	"github.com/eagl/fieldops-api/internal/infrastructure/storage"
)

// In-memory stand-ins for the repository and infrastructure ports, shared by
// the service tests in this package.

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.IsActive || includeInactive {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

type stubClientRepo struct {
	clients map[string]*domain.Client
	updates int
}

func newStubClientRepo(ids ...string) *stubClientRepo {
	r := &stubClientRepo{clients: map[string]*domain.Client{}}
	for _, id := range ids {
		r.clients[id] = &domain.Client{ID: id, Name: "Client " + id, IsActive: true}
	}
	return r
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClientRepo) List(_ context.Context, includeInactive bool) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.clients {
		if c.IsActive || includeInactive {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return domain.ErrClientNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	r.updates++
	return nil
}

func (r *stubClientRepo) Deactivate(_ context.Context, id string) error {
	c, ok := r.clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.IsActive = false
	return nil
}

func (r *stubClientRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.clients)), nil
}

type stubAssetRepo struct {
	assets map[string]*domain.Asset
}

func newStubAssetRepo() *stubAssetRepo {
	return &stubAssetRepo{assets: map[string]*domain.Asset{}}
}

func (r *stubAssetRepo) Create(_ context.Context, a *domain.Asset) error {
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *stubAssetRepo) FindByID(_ context.Context, id string) (*domain.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAssetRepo) ListByClient(_ context.Context, clientID string, includeInactive bool) ([]*domain.Asset, error) {
	var out []*domain.Asset
	for _, a := range r.assets {
		if a.ClientID == clientID && (a.IsActive || includeInactive) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubAssetRepo) ListAll(_ context.Context) ([]*domain.Asset, error) {
	var out []*domain.Asset
	for _, a := range r.assets {
		if a.IsActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubAssetRepo) Update(_ context.Context, a *domain.Asset) error {
	if _, ok := r.assets[a.ID]; !ok {
		return domain.ErrAssetNotFound
	}
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *stubAssetRepo) Deactivate(_ context.Context, id string) error {
	a, ok := r.assets[id]
	if !ok {
		return domain.ErrAssetNotFound
	}
	a.IsActive = false
	return nil
}

func (r *stubAssetRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.assets)), nil
}

type stubWorkOrderRepo struct {
	orders map[string]*domain.WorkOrder
}

func newStubWorkOrderRepo() *stubWorkOrderRepo {
	return &stubWorkOrderRepo{orders: map[string]*domain.WorkOrder{}}
}

func (r *stubWorkOrderRepo) Create(_ context.Context, wo *domain.WorkOrder) error {
	cp := *wo
	r.orders[wo.ID] = &cp
	return nil
}

func (r *stubWorkOrderRepo) FindByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	wo, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	cp := *wo
	return &cp, nil
}

func (r *stubWorkOrderRepo) List(_ context.Context, f ports.ListWorkOrdersFilter) ([]*domain.WorkOrder, int64, error) {
	var all []*domain.WorkOrder
	for _, wo := range r.orders {
		if f.ClientID != "" && wo.ClientID != f.ClientID {
			continue
		}
		if f.AssetID != "" && wo.AssetID != f.AssetID {
			continue
		}
		if f.Status != "" && string(wo.Status) != f.Status {
			continue
		}
		cp := *wo
		all = append(all, &cp)
	}
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubWorkOrderRepo) Update(_ context.Context, wo *domain.WorkOrder) error {
	if _, ok := r.orders[wo.ID]; !ok {
		return domain.ErrWorkOrderNotFound
	}
	cp := *wo
	r.orders[wo.ID] = &cp
	return nil
}

func (r *stubWorkOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

type stubBulkRepo struct {
	imports   map[string]*domain.ImportJob
	exports   map[string]*domain.ExportJob
	rowErrors map[string][]domain.RowError
}

func newStubBulkRepo() *stubBulkRepo {
	return &stubBulkRepo{
		imports:   map[string]*domain.ImportJob{},
		exports:   map[string]*domain.ExportJob{},
		rowErrors: map[string][]domain.RowError{},
	}
}

func (r *stubBulkRepo) CreateImportJob(_ context.Context, job *domain.ImportJob) error {
	for _, existing := range r.imports {
		if existing.Entity == job.Entity && existing.FileHash == job.FileHash {
			return domain.ErrDuplicateFile
		}
	}
	cp := *job
	r.imports[job.ID] = &cp
	return nil
}

func (r *stubBulkRepo) GetImportJob(_ context.Context, id string) (*domain.ImportJob, error) {
	job, ok := r.imports[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *stubBulkRepo) FindImportByHash(_ context.Context, entity, hash string) (*domain.ImportJob, error) {
	for _, job := range r.imports {
		if job.Entity == entity && job.FileHash == hash {
			cp := *job
			return &cp, nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (r *stubBulkRepo) ListImportJobs(_ context.Context, entity, status string, _ int) ([]*domain.ImportJob, error) {
	var out []*domain.ImportJob
	for _, job := range r.imports {
		if entity != "" && job.Entity != entity {
			continue
		}
		if status != "" && string(job.Status) != status {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubBulkRepo) UpdateImportJob(_ context.Context, job *domain.ImportJob) error {
	if _, ok := r.imports[job.ID]; !ok {
		return domain.ErrJobNotFound
	}
	cp := *job
	r.imports[job.ID] = &cp
	return nil
}

func (r *stubBulkRepo) RunningImportExists(_ context.Context, entity, excludeID string) (bool, error) {
	for _, job := range r.imports {
		if job.ID == excludeID || job.Entity != entity {
			continue
		}
		if job.Status == domain.JobQueued || job.Status == domain.JobRunning {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubBulkRepo) ReplaceRowErrors(_ context.Context, jobID string, errs []domain.RowError) error {
	r.rowErrors[jobID] = append([]domain.RowError(nil), errs...)
	return nil
}

func (r *stubBulkRepo) ListRowErrors(_ context.Context, jobID string, _ int) ([]domain.RowError, error) {
	return r.rowErrors[jobID], nil
}

func (r *stubBulkRepo) CreateExportJob(_ context.Context, job *domain.ExportJob) error {
	cp := *job
	r.exports[job.ID] = &cp
	return nil
}

func (r *stubBulkRepo) GetExportJob(_ context.Context, id string) (*domain.ExportJob, error) {
	job, ok := r.exports[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *stubBulkRepo) ListExportJobs(_ context.Context, status string, _ int) ([]*domain.ExportJob, error) {
	var out []*domain.ExportJob
	for _, job := range r.exports {
		if status != "" && string(job.Status) != status {
			continue
		}
		cp := *job
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubBulkRepo) UpdateExportJob(_ context.Context, job *domain.ExportJob) error {
	if _, ok := r.exports[job.ID]; !ok {
		return domain.ErrJobNotFound
	}
	cp := *job
	r.exports[job.ID] = &cp
	return nil
}

type stubStore struct {
	objects map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{objects: map[string][]byte{}}
}

func (s *stubStore) Put(_ context.Context, path string, body io.Reader, _ string, maxBytes int64) (*storage.PutResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, storage.ErrTooLarge
	}
	url := "mem://" + path
	s.objects[url] = data
	sum := sha256.Sum256(data)
	return &storage.PutResult{URL: url, Size: int64(len(data)), SHA256: hex.EncodeToString(sum[:])}, nil
}

func (s *stubStore) Open(_ context.Context, url string) (io.ReadCloser, error) {
	data, ok := s.objects[url]
	if !ok {
		return nil, errors.New("object not found: " + url)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubStore) SignedURL(_ context.Context, url string, _ time.Duration) (string, error) {
	return url + "?signed", nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, entity, hash string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, entity, hash string) error {
	d.marked = append(d.marked, entity+":"+hash)
	return nil
}
