package usecase

import (
	"context"
	"errors"
	"strings"

	"medtrack/internal/converter"
	"medtrack/internal/delivery/dto"
	"medtrack/internal/domain/entity"
	"medtrack/internal/domain/repository"
	"medtrack/internal/metrics"
	"medtrack/internal/session"
	"medtrack/pkg/token"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials or role mismatch")
	ErrUserNotFound       = errors.New("user not found")
)

// SessionToken is what a successful login hands back to the HTTP layer for
// the session cookie.
type SessionToken struct {
	Token   string
	TokenID string
	User    *entity.User
}

type AuthUsecase interface {
	SignupPatient(ctx context.Context, req *dto.SignupPatientRequest) error
	SignupDoctor(ctx context.Context, req *dto.SignupDoctorRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*SessionToken, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenID string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserView, error)
	ForgotPassword(ctx context.Context, email string) (bool, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	tokenService       *token.Service
	sessions           session.Store
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	tokenService *token.Service,
	sessions session.Store,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		doctorProfileRepo:  doctorProfileRepo,
		tokenService:       tokenService,
		sessions:           sessions,
	}
}

func (u *authUsecase) SignupPatient(ctx context.Context, req *dto.SignupPatientRequest) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RolePatient)
	if err != nil {
		return err
	}

	profile := &entity.PatientProfile{
		UserID:  user.ID,
		Age:     req.Age,
		Gender:  req.Gender,
		Address: req.Address,
		Mobile:  req.Mobile,
	}
	if err := u.patientProfileRepo.Create(tx, profile); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) SignupDoctor(ctx context.Context, req *dto.SignupDoctorRequest) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleDoctor)
	if err != nil {
		return err
	}

	profile := &entity.DoctorProfile{
		UserID:         user.ID,
		Age:            req.Age,
		Gender:         req.Gender,
		Specialization: req.Specialization,
		Mobile:         req.Mobile,
	}
	if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) createUser(tx *gorm.DB, email, password, fullName, role string) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		Role:     role,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and role, then issues a session token whose
// id is persisted server-side so logout can revoke it.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*SessionToken, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || user.Role != req.Role {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	signedToken, tokenID, err := u.tokenService.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, user.ID, tokenID, u.tokenService.TTL()); err != nil {
		u.log.Warnf("Failed to store session in Redis: %+v", err)
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &SessionToken{Token: signedToken, TokenID: tokenID, User: user}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if err := u.sessions.Delete(ctx, userID, tokenID); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserView, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToView(user), nil
}

// ForgotPassword only reports whether the email is registered; no reset token
// is issued. The reset email itself is simulated.
func (u *authUsecase) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to look up email for password reset: %+v", err)
		return false, err
	}
	return user != nil, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
