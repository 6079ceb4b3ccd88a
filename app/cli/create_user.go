package main

import (
	"fmt"

	"caseAssist/business/auth"
	"caseAssist/domain"
	psqlRepo "caseAssist/internal/repository/postgres"
	"caseAssist/pkg/database"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an admin or case worker account",
	RunE:  runCreateUser,
}

var (
	createUserName     string
	createUserEmail    string
	createUserPassword string
	createUserRole     string
)

func init() {
	createUserCmd.Flags().StringVarP(&createUserName, "username", "u", "", "Username (required)")
	createUserCmd.Flags().StringVarP(&createUserEmail, "email", "e", "", "Email address (required)")
	createUserCmd.Flags().StringVarP(&createUserPassword, "password", "p", "", "Password, at least 6 characters (required)")
	createUserCmd.Flags().StringVarP(&createUserRole, "role", "r", domain.RoleCaseWorker, "Role: admin or case_worker")

	for _, name := range []string{"username", "email", "password"} {
		if err := createUserCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(createUserCmd)
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	_, db, err := openDB(&domain.User{})
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc := auth.NewAuthService(psqlRepo.NewUserRepository(db), nil, validator.New(), 0)
	user, err := svc.CreateUser(cmd.Context(), auth.NewUser{
		Username: createUserName,
		Email:    createUserEmail,
		Password: createUserPassword,
		Role:     createUserRole,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
	return nil
}
