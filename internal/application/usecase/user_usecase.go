package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para usuarios.
// El saldo no se edita aquí: solo cambia con recargas y pedidos.
type UserUseCase struct {
	repo  repository.UserRepository
	roles repository.RoleRepository
	cards *CardIndex
	now   func() time.Time
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, roles repository.RoleRepository, cards *CardIndex) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles, cards: cards, now: time.Now}
}

// List usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID o domain.ErrUserNotFound.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Create da de alta un usuario. Username, mail y tarjeta son únicos.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.Password != "" && in.Username == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkRole(ctx, in.RoleID); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, 0, in.Username, in.Mail); err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:   in.Username,
		FirstName:  in.FirstName,
		Name:       in.Name,
		RoleID:     in.RoleID,
		GroupYear:  in.GroupYear,
		Phone:      in.Phone,
		Mail:       in.Mail,
		StatsAgree: in.StatsAgree,
		CreatedAt:  uc.now(),
	}
	if err := uc.setPassword(u, in.Password); err != nil {
		return nil, err
	}
	if err := uc.setCard(ctx, u, in.CardID); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Update reemplaza los datos editables del usuario.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Password != "" && in.Username == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkRole(ctx, in.RoleID); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, id, in.Username, in.Mail); err != nil {
		return nil, err
	}
	u.Username = in.Username
	u.FirstName = in.FirstName
	u.Name = in.Name
	u.RoleID = in.RoleID
	u.GroupYear = in.GroupYear
	u.Phone = in.Phone
	u.Mail = in.Mail
	u.StatsAgree = in.StatsAgree
	if u.Username == nil {
		u.PasswordHash = ""
	}
	if err := uc.setPassword(u, in.Password); err != nil {
		return nil, err
	}
	if in.CardID != "" {
		if err := uc.setCard(ctx, u, in.CardID); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Delete borra un usuario.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Anonymize borra los datos personales del usuario; saldo, rol y tarjeta se conservan.
func (uc *UserUseCase) Anonymize(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Anonymize()
	u.PasswordHash = ""
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// FindByCard busca el usuario de una tarjeta.
func (uc *UserUseCase) FindByCard(ctx context.Context, cardID string) (*dto.UserResponse, error) {
	u, err := uc.cards.Find(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(u), nil
}

func (uc *UserUseCase) get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (uc *UserUseCase) checkRole(ctx context.Context, roleID int64) error {
	r, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	return nil
}

// checkUnique comprueba username y mail ignorando al propio usuario (selfID).
func (uc *UserUseCase) checkUnique(ctx context.Context, selfID int64, username, mail *string) error {
	if username != nil {
		other, err := uc.repo.GetByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return domain.ErrDuplicate
		}
	}
	if mail != nil {
		other, err := uc.repo.GetByMail(ctx, *mail)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (uc *UserUseCase) setPassword(u *entity.User, password string) error {
	if password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.ErrInvalidInput
		}
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// setCard hashea la tarjeta con la sal del año y rechaza tarjetas ya asignadas a otro usuario.
func (uc *UserUseCase) setCard(ctx context.Context, u *entity.User, cardID string) error {
	other, err := uc.cards.Find(ctx, cardID)
	if err != nil {
		return err
	}
	if other != nil && other.ID != u.ID {
		return domain.ErrDuplicate
	}
	hash, year, err := uc.cards.HashCurrent(ctx, cardID)
	if err != nil {
		return err
	}
	u.CardIDHash = hash
	u.SaltYear = year
	return nil
}

// ToUserResponse convierte la entidad al DTO de salida.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		Name:       u.Name,
		RoleID:     u.RoleID,
		Balance:    u.Balance,
		GroupYear:  u.GroupYear,
		Phone:      u.Phone,
		Mail:       u.Mail,
		StatsAgree: u.StatsAgree,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}
