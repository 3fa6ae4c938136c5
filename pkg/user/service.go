package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gatherhub/event-manager/internal/errdef"

	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/go-mail/mail"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 3
	argonMemory  = 128 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

func NewService(logger *slog.Logger, repository *repository, dialer dialer, uiURL string) *Service {
	return &Service{
		logger:     logger,
		repository: repository,
		dialer:     dialer,
		uiURL:      uiURL,
	}
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type Service struct {
	logger     *slog.Logger
	repository *repository
	dialer     dialer
	uiURL      string
}

func (s Service) SignUp(ctx context.Context, email string, name string, password string) (*model.User, error) {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %v", err)
	}

	user := &model.User{
		Email:    email,
		Name:     strings.TrimSpace(name),
		Password: hashedPassword,
	}

	err = s.repository.create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.sendWelcomeEmail(user); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send welcome email", "error", err, "email", user.Email)
	}

	return user, nil
}

func (s Service) sendWelcomeEmail(user *model.User) error {
	m := mail.NewMessage()
	m.SetHeader("From", "Gatherhub <no-reply@gatherhub.org>")
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "Welcome to Gatherhub")
	body := fmt.Sprintf("Hello %s, your account is ready. Go find an event worth joining: %s", user.Name, s.uiURL)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	_, err := rand.Read(salt)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))

	return encoded, nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	parts := strings.Split(storedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("wrong password hash format")
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("unable to parse password hash parameters: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("unable to verify user password")
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("unable to verify user password")
	}

	suppliedHash := argon2.IDKey([]byte(suppliedPassword), salt, time, memory, threads, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, suppliedHash) == 1, nil
}

func (s Service) SignIn(ctx context.Context, email string, password string) (*model.User, error) {
	unauthorizedError := "invalid email and password combination"

	user, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized("%s", unauthorizedError)
		}
		return nil, err
	}

	match, err := comparePasswords(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %v", err)
	}

	if !match {
		return nil, errdef.NewUnauthorized("%s", unauthorizedError)
	}

	return user, nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}
