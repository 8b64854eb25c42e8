package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
)

// maxUsernameAttempts bounds the search for a free generated username.
const maxUsernameAttempts = 20

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// LoginInput is the anonymous device sign-in form.
type LoginInput struct {
	Level         string
	ClassOrCourse string
	AssistantType string
	DeviceID      string
}

// UserUseCase signs devices in and resolves profiles.
type UserUseCase interface {
	// LoginWithDevice returns the account bound to the device, registering
	// one with a generated username on first sight.
	LoginWithDevice(ctx context.Context, in LoginInput) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
	dev   bool
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger, dev bool) UserUseCase {
	return &userUC{users: users, log: logger, dev: dev}
}

func (u *userUC) LoginWithDevice(ctx context.Context, in LoginInput) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.LoginWithDevice")()

	device := strings.TrimSpace(in.DeviceID)
	if device == "" || strings.TrimSpace(in.ClassOrCourse) == "" {
		return nil, domain.ErrInvalidArgument
	}
	level, err := model.ParseLevel(in.Level)
	if err != nil {
		return nil, err
	}
	persona, err := model.ParsePersona(in.AssistantType)
	if err != nil {
		return nil, err
	}

	existing, err := u.users.FindByDeviceID(ctx, repository.NoTX, device)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("find device: %w", err)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		name := model.GenerateUsername(rnd)
		taken, err := u.users.ExistsUsername(ctx, repository.NoTX, name)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			continue
		}
		nu, err := model.NewUser("", name, device, level, in.ClassOrCourse, persona)
		if err != nil {
			return nil, err
		}
		err = u.users.Save(ctx, repository.NoTX, nu)
		if err == nil {
			metrics.IncUsersRegistered()
			logging.With(ctx, u.log).Info().
				Str("device", logging.Redact(device, u.dev)).
				Str("username", name).
				Msg("user registered")
			return nu, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("save user: %w", err)
		}
		// Lost a race: either the device signed in concurrently or the
		// name was just taken.
		if usr, ferr := u.users.FindByDeviceID(ctx, repository.NoTX, device); ferr == nil {
			return usr, nil
		}
	}
	return nil, fmt.Errorf("generate username: %w", domain.ErrOperationFailed)
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Get")()
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.users.FindByID(ctx, repository.NoTX, id)
}
