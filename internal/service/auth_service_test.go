package service

import (
	"context"
	"testing"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/config"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

func (r *fakeUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func newAuthFixture(t *testing.T) (AuthService, *fakeUsuarioRepo, *fakeCajaRepo) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "secreto-de-test",
		JWTExpirationHours:   1,
		JWTRefreshHours:      24,
		CierreAjusteFaltante: true,
	}
	usuarioRepo := newFakeUsuarioRepo()
	cajaRepo := newFakeCajaRepo()
	movRepo := newFakeMovimientoRepo()
	reservas := NewReservaService(newFakeReservaRepo(), movRepo)
	caja := NewCajaService(cajaRepo, movRepo, reservas, cfg, nil)
	return NewAuthService(usuarioRepo, caja, cfg), usuarioRepo, cajaRepo
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, username, password string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username: username, Nombre: "Usuario Test",
		PasswordHash: string(hash), Rol: "cajero", Activo: true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLoginAbreCaja(t *testing.T) {
	svc, usuarioRepo, cajaRepo := newAuthFixture(t)
	seedUsuario(t, usuarioRepo, "cajera", "clave1234")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajera", Password: "clave1234",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)

	// Login auto-opens the physical session when none exists.
	sesion, err := cajaRepo.FindSesionAbierta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abierta", sesion.Estado)
	require.NotNil(t, resp.SesionCaja)
	assert.True(t, resp.SesionCaja.Abierta)

	// A second login reuses it instead of opening another one.
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajera", Password: "clave1234",
	})
	require.NoError(t, err)
	abiertas := 0
	for _, s := range cajaRepo.sesiones {
		if s.Estado == "abierta" {
			abiertas++
		}
	}
	assert.Equal(t, 1, abiertas)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	svc, usuarioRepo, _ := newAuthFixture(t)
	usuario := seedUsuario(t, usuarioRepo, "cajera", "clave1234")

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajera", Password: "otra-clave",
	})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "nadie", Password: "clave1234",
	})
	assert.Error(t, err)

	// Deactivated users cannot log in.
	usuario.Activo = false
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajera", Password: "clave1234",
	})
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	svc, usuarioRepo, _ := newAuthFixture(t)
	seedUsuario(t, usuarioRepo, "cajera", "clave1234")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajera", Password: "clave1234",
	})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, login.User.ID, renovado.User.ID)

	_, err = svc.Refresh(context.Background(), "no-es-un-token")
	assert.Error(t, err)
}
