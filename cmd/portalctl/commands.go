package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/app/repositories"
	"github.com/yigit/examportal/internal/app/services"
	"github.com/yigit/examportal/internal/config"
	"github.com/yigit/examportal/internal/pkg/auth"
	"github.com/yigit/examportal/internal/pkg/helpers"
)

type adminCreator interface {
	CreateAdmin(ctx context.Context, req dto.CreateAdminUserRequest) (*models.AdminUser, error)
}

type registrationReader interface {
	ListRegistrations(ctx context.Context, q services.RegistrationQuery) ([]*models.RegistrationDetail, int64, error)
	Stats(ctx context.Context) (*models.RegistrationStats, error)
}

type formManager interface {
	ListForms(ctx context.Context, isOpen *bool) ([]*models.RegistrationForm, error)
	SetOpen(ctx context.Context, id string, isOpen bool) (*models.RegistrationForm, error)
	BaseURL() string
}

type cli struct {
	admins        adminCreator
	registrations registrationReader
	forms         formManager
	out           io.Writer
}

func newCLI(cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger, out io.Writer) *cli {
	repos := repositories.NewRepositories(pool)
	codec := auth.NewSessionCodec(auth.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    helpers.ParseDuration(cfg.Session.TTL, auth.DefaultSessionTTL),
		Issuer: cfg.Session.Issuer,
	}, lgr)

	return &cli{
		admins:        services.NewAuthService(repos.AdminUserRepository, codec, nil, lgr),
		registrations: services.NewRegistrationService(repos.RegistrationFormRepository, repos.RegistrationRepository, lgr),
		forms:         services.NewRegistrationFormService(repos.RegistrationFormRepository, cfg.App.BaseURL, lgr),
		out:           out,
	}
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "create-admin":
		return c.createAdmin(ctx, args)
	case "pending":
		return c.pending(ctx, args)
	case "stats":
		return c.stats(ctx)
	case "forms":
		return c.listForms(ctx, args)
	case "open", "close":
		if len(args) != 1 {
			return errUsage
		}
		return c.toggle(ctx, args[0], command == "open")
	default:
		return errUsage
	}
}

func (c *cli) createAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "password (min 6 characters)")
	fullName := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	userType := fs.String("type", string(models.UserTypeAdmin), "ADMIN, DEAN, HOD or USER")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	user, err := c.admins.CreateAdmin(ctx, dto.CreateAdminUserRequest{
		FullName: *fullName,
		Username: *username,
		Email:    *email,
		Password: *password,
		UserType: *userType,
	})
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(c.out, "Created %s account %q (id %s)\n", user.UserType, user.Username, user.ID)
	return nil
}

func (c *cli) pending(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pending", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	formID := fs.String("form", "", "only registrations of this form")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rows, _, err := c.registrations.ListRegistrations(ctx, services.RegistrationQuery{
		Status: string(models.ApprovalPending),
		FormID: *formID,
	})
	if err != nil {
		return err
	}

	color.New(color.FgYellow).Fprintf(c.out, "Pending registrations: %d\n", len(rows))
	renderRegistrations(c.out, rows)
	return nil
}

func (c *cli) stats(ctx context.Context) error {
	stats, err := c.registrations.Stats(ctx)
	if err != nil {
		return err
	}
	renderStats(c.out, stats)
	return nil
}

func (c *cli) listForms(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forms", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	openFilter := fs.String("open", "", "true or false")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var isOpen *bool
	if *openFilter != "" {
		v, err := strconv.ParseBool(*openFilter)
		if err != nil {
			return fmt.Errorf("-open must be true or false: %w", errUsage)
		}
		isOpen = &v
	}

	forms, err := c.forms.ListForms(ctx, isOpen)
	if err != nil {
		return err
	}
	renderForms(c.out, forms, c.forms.BaseURL())
	return nil
}

func (c *cli) toggle(ctx context.Context, formID string, open bool) error {
	form, err := c.forms.SetOpen(ctx, formID, open)
	if err != nil {
		return err
	}

	status := dto.FormStatus(form.IsOpen)
	printer := color.New(color.FgGreen)
	if !form.IsOpen {
		printer = color.New(color.FgYellow)
	}
	printer.Fprintf(c.out, "%s is now %s\n", form.FormName, status)
	return nil
}
