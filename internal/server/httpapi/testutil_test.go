package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/dmitrijs2005/photoframe/internal/dbx"
	"github.com/dmitrijs2005/photoframe/internal/logging"
	"github.com/dmitrijs2005/photoframe/internal/server/config"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
	orphansrepo "github.com/dmitrijs2005/photoframe/internal/server/repositories/orphans"
	photosrepo "github.com/dmitrijs2005/photoframe/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photoframe/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/photoframe/internal/server/repositories/users"
	"github.com/dmitrijs2005/photoframe/internal/server/services"
	"github.com/dmitrijs2005/photoframe/internal/server/storage"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// The handler tests run the real router, services and middleware end to end.
// Only the two external systems are replaced: the metadata database by
// in-memory repositories and the blob store by memBlob. Transactions still go
// through a real database/sql connection.

type memUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: make(map[string]*models.User)}
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	r.users[u.ID] = &u
	return &u, nil
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type memPhotosRepo struct {
	mu     sync.Mutex
	photos map[string]*models.Photo
}

func newMemPhotosRepo() *memPhotosRepo {
	return &memPhotosRepo{photos: make(map[string]*models.Photo)}
}

func (r *memPhotosRepo) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *photo
	p.CreatedAt = time.Now()
	r.photos[p.ID] = &p
	out := p
	return &out, nil
}

func (r *memPhotosRepo) GetByIDAndOwner(ctx context.Context, id string, ownerID string) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	out := *p
	return &out, nil
}

func (r *memPhotosRepo) ListByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*models.Photo
	for _, p := range r.photos {
		if p.OwnerID == ownerID {
			out := *p
			owned = append(owned, &out)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (r *memPhotosRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.photos {
		if p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memPhotosRepo) DeleteByIDAndOwner(ctx context.Context, id string, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok || p.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.photos, id)
	return nil
}

func (r *memPhotosRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.photos)), nil
}

func (r *memPhotosRepo) MostActiveUploader(ctx context.Context) (*models.UploaderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, p := range r.photos {
		counts[p.OwnerID]++
	}
	var best *models.UploaderStats
	for owner, n := range counts {
		if best == nil || n > best.UploadCount {
			best = &models.UploaderStats{UserID: owner, UploadCount: n}
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	return best, nil
}

func (r *memPhotosRepo) LargestPhoto(ctx context.Context) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var largest *models.Photo
	for _, p := range r.photos {
		if largest == nil || p.Bytes > largest.Bytes {
			out := *p
			largest = &out
		}
	}
	if largest == nil {
		return nil, common.ErrorNotFound
	}
	return largest, nil
}

type memOrphansRepo struct {
	mu       sync.Mutex
	recorded []*models.Orphan
}

func (r *memOrphansRepo) Create(ctx context.Context, orphan *models.Orphan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, orphan)
	return nil
}

func (r *memOrphansRepo) ListUnresolved(ctx context.Context, limit int) ([]*models.Orphan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recorded, nil
}

type memRepoManager struct {
	users   *memUsersRepo
	photos  *memPhotosRepo
	orphans *memOrphansRepo
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *memRepoManager) Photos(db dbx.DBTX) photosrepo.Repository     { return m.photos }
func (m *memRepoManager) Orphans(db dbx.DBTX) orphansrepo.Repository   { return m.orphans }

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

type memBlob struct {
	mu        sync.Mutex
	uploadErr error
	deleteErr error
	objects   map[string][]byte
	uploads   int
	deletes   int
}

func newMemBlob() *memBlob {
	return &memBlob{objects: make(map[string][]byte)}
}

func (b *memBlob) Upload(ctx context.Context, key string, body io.Reader, contentType string) (*storage.ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads++
	if b.uploadErr != nil {
		return nil, b.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	b.objects[key] = data
	return &storage.ObjectInfo{
		Key:       key,
		URL:       "http://blob.test/" + key,
		SecureURL: "https://blob.test/" + key,
	}, nil
}

func (b *memBlob) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes++
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.objects, key)
	return nil
}

func (b *memBlob) uploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

func (b *memBlob) objectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type testEnv struct {
	server  *Server
	users   *memUsersRepo
	photos  *memPhotosRepo
	orphans *memOrphansRepo
	blob    *memBlob
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		EndpointAddr:                ":0",
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		UploadRateLimit:             5,
		UploadRateWindow:            time.Minute,
		MaxUploadBytes:              10 << 20,
		ExternalCallTimeout:         time.Second,
	}

	env := &testEnv{
		users:   newMemUsersRepo(),
		photos:  newMemPhotosRepo(),
		orphans: &memOrphansRepo{},
		blob:    newMemBlob(),
		cfg:     cfg,
	}

	rm := &memRepoManager{users: env.users, photos: env.photos, orphans: env.orphans}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	us := services.NewUserService(db, rm, cfg)
	ps := services.NewPhotoService(db, rm, env.blob, logger, cfg)

	env.server = NewServer(cfg, logger, us, ps)
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

// signup registers an identity and returns a bearer token for it.
func (e *testEnv) signup(t *testing.T, name, email, password string) string {
	t.Helper()

	w := e.postJSON(t, "/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status %d: %s", w.Code, w.Body.String())
	}

	w = e.postJSON(t, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("login returned no token: %s", w.Body.String())
	}
	return resp.Token
}

// pngPayload encodes a 1x1 png padded with trailing bytes up to total.
func pngPayload(t *testing.T, total int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	payload := buf.Bytes()
	if total > len(payload) {
		payload = append(payload, make([]byte, total-len(payload))...)
	}
	return payload
}

// uploadRequest builds a multipart POST /photos/upload carrying payload.
func uploadRequest(t *testing.T, token string, payload []byte, caption string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("photo", "photo.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			t.Fatalf("write caption: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/photos/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func authedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// errorCode extracts the machine-readable code from a failure response.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", w.Body.String(), err)
	}
	return resp.Code
}
