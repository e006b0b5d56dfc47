package users

import (
	"context"
	"testing"

	"github.com/agrihub/agrihub-backend/internal/audit"
	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	pkgerrors "github.com/agrihub/agrihub-backend/pkg/errors"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/agrihub/agrihub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUsersRepo struct {
	users        map[uuid.UUID]*models.User
	created      []CreateUserDTO
	passwordSets map[uuid.UUID]string
	deleted      []uuid.UUID
}

func newStubUsersRepo(seed ...*models.User) *stubUsersRepo {
	repo := &stubUsersRepo{
		users:        map[uuid.UUID]*models.User{},
		passwordSets: map[uuid.UUID]string{},
	}
	for _, u := range seed {
		repo.users[u.ID] = u
	}
	return repo
}

func (s *stubUsersRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	s.created = append(s.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsersRepo) List(ctx context.Context, page pagination.Params) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *stubUsersRepo) Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.FullName != nil {
		user.FullName = *dto.FullName
	}
	if dto.Role != nil {
		user.Role = *dto.Role
	}
	if dto.IsActive != nil {
		user.IsActive = *dto.IsActive
	}
	return user, nil
}

func (s *stubUsersRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.passwordSets[id] = hash
	return nil
}

func (s *stubUsersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubRevoker struct {
	revoked []uuid.UUID
}

func (s *stubRevoker) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.revoked = append(s.revoked, userID)
	return 1, nil
}

type recordedAudit struct {
	entries []audit.Entry
}

func (r *recordedAudit) Record(ctx context.Context, entry audit.Entry) {
	r.entries = append(r.entries, entry)
}

func buildUsersService(t *testing.T, repo *stubUsersRepo) (Service, *stubRevoker, *recordedAudit) {
	t.Helper()
	revoker := &stubRevoker{}
	auditRec := &recordedAudit{}
	svc, err := NewService(ServiceParams{Repo: repo, Sessions: revoker, Audit: auditRec})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, revoker, auditRec
}

func seedUser(role enums.Role) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "seed@agrihub.example",
		FullName: "Seed User",
		Role:     role,
		IsActive: true,
	}
}

func TestCreateHashesPasswordAndAudits(t *testing.T) {
	repo := newStubUsersRepo()
	svc, _, auditRec := buildUsersService(t, repo)
	actor := Actor{UserID: uuid.New()}

	dto, err := svc.Create(context.Background(), actor, CreateRequest{
		Email:    "  New@AgriHub.Example ",
		Password: "changeme123",
		FullName: "New Editor",
		Role:     "editor",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Email != "new@agrihub.example" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
	if dto.Role != enums.RoleEditor {
		t.Fatalf("expected editor role, got %s", dto.Role)
	}

	stored := repo.created[0]
	if stored.PasswordHash == "changeme123" {
		t.Fatal("password stored in plaintext")
	}
	ok, err := security.VerifyPassword("changeme123", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash should verify, ok=%v err=%v", ok, err)
	}

	if len(auditRec.entries) != 1 || auditRec.entries[0].Action != enums.AuditActionUserCreate {
		t.Fatalf("expected USER_CREATE audit entry, got %+v", auditRec.entries)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	repo := newStubUsersRepo()
	svc, _, _ := buildUsersService(t, repo)

	_, err := svc.Create(context.Background(), Actor{UserID: uuid.New()}, CreateRequest{
		Email:    "x@agrihub.example",
		Password: "changeme123",
		FullName: "X",
		Role:     "owner",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePasswordRevokesSessions(t *testing.T) {
	user := seedUser(enums.RoleEditor)
	repo := newStubUsersRepo(user)
	svc, revoker, _ := buildUsersService(t, repo)

	newPassword := "rotated-secret"
	_, err := svc.Update(context.Background(), Actor{UserID: uuid.New()}, user.ID, UpdateRequest{
		Password: &newPassword,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != user.ID {
		t.Fatalf("expected sessions revoked for %s, got %v", user.ID, revoker.revoked)
	}
	if repo.passwordSets[user.ID] == "" {
		t.Fatal("expected password hash to be replaced")
	}
}

func TestUpdateGuardsSelfDemotion(t *testing.T) {
	user := seedUser(enums.RoleSuperAdmin)
	repo := newStubUsersRepo(user)
	svc, _, _ := buildUsersService(t, repo)

	viewer := "viewer"
	_, err := svc.Update(context.Background(), Actor{UserID: user.ID}, user.ID, UpdateRequest{Role: &viewer})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for self demotion, got %v", err)
	}

	inactive := false
	_, err = svc.Update(context.Background(), Actor{UserID: user.ID}, user.ID, UpdateRequest{IsActive: &inactive})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for self deactivation, got %v", err)
	}
}

func TestDeactivationRevokesSessions(t *testing.T) {
	user := seedUser(enums.RoleViewer)
	repo := newStubUsersRepo(user)
	svc, revoker, _ := buildUsersService(t, repo)

	inactive := false
	_, err := svc.Update(context.Background(), Actor{UserID: uuid.New()}, user.ID, UpdateRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(revoker.revoked) != 1 {
		t.Fatalf("expected session revocation on deactivation, got %v", revoker.revoked)
	}
}

func TestDeleteGuardsSelfAndCascades(t *testing.T) {
	user := seedUser(enums.RoleEditor)
	repo := newStubUsersRepo(user)
	svc, revoker, auditRec := buildUsersService(t, repo)

	err := svc.Delete(context.Background(), Actor{UserID: user.ID}, user.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error deleting own account, got %v", err)
	}

	actor := Actor{UserID: uuid.New()}
	if err := svc.Delete(context.Background(), actor, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != user.ID {
		t.Fatalf("expected sessions revoked before delete, got %v", revoker.revoked)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected user row deleted")
	}
	if len(auditRec.entries) != 1 || auditRec.entries[0].Action != enums.AuditActionUserDelete {
		t.Fatalf("expected USER_DELETE audit entry, got %+v", auditRec.entries)
	}
}
