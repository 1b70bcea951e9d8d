package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/noxven/gestion-ie/config"
	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
	pginfra "github.com/noxven/gestion-ie/internal/infrastructure/postgres"
	"github.com/noxven/gestion-ie/pkg/helpers"
)

type seeder struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  *pginfra.Store
	close  func()
}

func (s *seeder) open(ctx context.Context, migrate bool) error {
	if migrate {
		if err := pginfra.RunMigrations(s.cfg.PostgresDSN(), s.cfg.MigrationsDir, s.logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	pool, err := pginfra.NewPool(ctx, s.cfg.PostgresDSN(), s.cfg.AppName+"-seed", 2, 1, s.cfg.DBMaxConnLife)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	s.store = pginfra.NewStore(pool)
	s.close = pool.Close
	return nil
}

// ensureRoles creates any missing role tag and returns every role by tag.
func (s *seeder) ensureRoles(ctx context.Context) (map[string]entity.Role, error) {
	roles := s.store.Repos().Roles
	out := make(map[string]entity.Role, 2)
	for _, tag := range entity.Roles() {
		r, err := roles.GetByDescription(ctx, tag)
		if errors.Is(err, repository.ErrNotFound) {
			r = &entity.Role{Description: tag}
			if err = roles.Create(ctx, r); err != nil && errors.Is(err, repository.ErrConflict) {
				r, err = roles.GetByDescription(ctx, tag)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", tag, err)
		}
		out[tag] = *r
	}
	return out, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	s := &seeder{cfg: cfg, logger: helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)}

	if err := newRootCmd(s).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Configuration is validated before any
// subcommand touches the database.
func newRootCmd(s *seeder) *cobra.Command {
	var migrate bool
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Seed roles and administrator accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return s.open(cmd.Context(), migrate)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.close != nil {
				s.close()
			}
		},
	}
	root.PersistentFlags().BoolVar(&migrate, "migrate", true, "run pending migrations first")

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Ensure the ADMIN and USER roles exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := s.ensureRoles(cmd.Context())
			if err != nil {
				return err
			}
			for _, tag := range entity.Roles() {
				fmt.Printf("role %s id=%d\n", tag, roles[tag].ID)
			}
			return nil
		},
	}

	var email, name, password, phone string
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Register an administrator account (identity, credential and profile)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			roles, err := s.ensureRoles(cmd.Context())
			if err != nil {
				return err
			}
			reg := &application.Registrar{
				UoW:        s.store,
				Identities: s.store.Repos().Identities,
				Hasher:     helpers.NewBcryptHasher(bcrypt.DefaultCost),
				Logger:     s.logger,
			}
			p, err := reg.Register(cmd.Context(), application.RegisterInput{
				FullName: name,
				Email:    email,
				Phone:    phone,
				Password: password,
				RoleID:   roles[entity.RoleAdmin].ID,
			})
			if errors.Is(err, application.ErrDuplicateEmail) {
				fmt.Printf("%s is already registered\n", email)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("admin profile id=%d email=%s\n", p.ID, p.Email)
			return nil
		},
	}
	adminCmd.Flags().StringVar(&email, "email", "", "account email")
	adminCmd.Flags().StringVar(&name, "name", "Administrador", "full name")
	adminCmd.Flags().StringVar(&password, "password", "", "initial password")
	adminCmd.Flags().StringVar(&phone, "phone", "", "phone number")

	root.AddCommand(rolesCmd, adminCmd)
	return root
}
