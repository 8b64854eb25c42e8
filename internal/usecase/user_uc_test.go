//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/usecase"
)

func TestUserUseCase_LoginWithDevice(t *testing.T) {
	ctx := context.Background()
	in := usecase.LoginInput{Level: "College", ClassOrCourse: "B.Tech", AssistantType: "girl", DeviceID: "dev-1"}

	t.Run("should register a new device with a generated username", func(t *testing.T) {
		// --- Arrange ---
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger(), false)

		// --- Act ---
		u, err := uc.LoginWithDevice(ctx, in)

		// --- Assert ---
		if err != nil {
			t.Fatalf("LoginWithDevice failed: %v", err)
		}
		if u.Username == "" || u.DeviceID != "dev-1" {
			t.Fatalf("unexpected user: %+v", u)
		}
		if u.Level != model.LevelCollege || u.Persona != model.PersonaGirl {
			t.Errorf("profile = %s/%s, want college/girl", u.Level, u.Persona)
		}
		if _, err := repo.FindByDeviceID(ctx, nil, "dev-1"); err != nil {
			t.Errorf("user not persisted: %v", err)
		}
	})

	t.Run("should return the existing account for a known device", func(t *testing.T) {
		// --- Arrange ---
		repo := NewMockUserRepo()
		uc := usecase.NewUserUseCase(repo, newTestLogger(), false)
		first, err := uc.LoginWithDevice(ctx, in)
		if err != nil {
			t.Fatalf("first login: %v", err)
		}

		// --- Act ---
		again, err := uc.LoginWithDevice(ctx, usecase.LoginInput{Level: "school", ClassOrCourse: "10th", AssistantType: "boy", DeviceID: "dev-1"})

		// --- Assert ---
		if err != nil {
			t.Fatalf("second login: %v", err)
		}
		if again.ID != first.ID || again.Username != first.Username {
			t.Errorf("got %s/%s, want %s/%s", again.ID, again.Username, first.ID, first.Username)
		}
		if again.Level != model.LevelCollege {
			t.Errorf("stored profile was overwritten: level=%s", again.Level)
		}
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		uc := usecase.NewUserUseCase(NewMockUserRepo(), newTestLogger(), false)
		cases := []usecase.LoginInput{
			{Level: "college", ClassOrCourse: "x", AssistantType: "boy"},
			{Level: "college", ClassOrCourse: " ", AssistantType: "boy", DeviceID: "d"},
			{Level: "phd", ClassOrCourse: "x", AssistantType: "boy", DeviceID: "d"},
			{Level: "college", ClassOrCourse: "x", AssistantType: "robot", DeviceID: "d"},
		}
		for _, c := range cases {
			if _, err := uc.LoginWithDevice(ctx, c); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("LoginWithDevice(%+v) err = %v, want ErrInvalidArgument", c, err)
			}
		}
	})

	t.Run("should fail when the store keeps rejecting writes", func(t *testing.T) {
		repo := NewMockUserRepo()
		repo.SaveErr = errors.New("db down")
		uc := usecase.NewUserUseCase(repo, newTestLogger(), false)

		if _, err := uc.LoginWithDevice(ctx, in); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestUserUseCase_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewMockUserRepo()
	seedUser(repo, "u-1", "CalmRiver12", model.PersonaBoy)
	uc := usecase.NewUserUseCase(repo, newTestLogger(), false)

	u, err := uc.Get(ctx, "u-1")
	if err != nil || u.Username != "CalmRiver12" {
		t.Fatalf("Get = %+v, %v", u, err)
	}
	if _, err := uc.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
	if _, err := uc.Get(ctx, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("empty id err = %v, want ErrInvalidArgument", err)
	}
}
